package hdbscanstar

import (
	"log"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// UndirectedGraph is the mutual reachability spanning tree produced by
// ConstructMST. Edges live in parallel arrays; the adjacency lists are
// mutable so the hierarchy driver can remove edges as it descends the
// weight scale.
type UndirectedGraph struct {
	numVertices int
	verticesA   []int
	verticesB   []int
	weights     []float64
	adj         [][]int
}

func newUndirectedGraph(numVertices int, verticesA, verticesB []int, weights []float64) *UndirectedGraph {
	g := &UndirectedGraph{
		numVertices: numVertices,
		verticesA:   verticesA,
		verticesB:   verticesB,
		weights:     weights,
		adj:         make([][]int, numVertices),
	}
	for i := range weights {
		a, b := verticesA[i], verticesB[i]
		g.adj[a] = append(g.adj[a], b)
		if a != b {
			g.adj[b] = append(g.adj[b], a)
		}
	}
	return g
}

// NumVertices returns the number of vertices in the graph.
func (g *UndirectedGraph) NumVertices() int { return g.numVertices }

// NumEdges returns the number of edges, including any self-edges.
func (g *UndirectedGraph) NumEdges() int { return len(g.weights) }

// Edge returns the i-th edge's endpoints and weight.
func (g *UndirectedGraph) Edge(i int) (a, b int, weight float64) {
	return g.verticesA[i], g.verticesB[i], g.weights[i]
}

// Neighbors returns vertex v's current adjacency list. The slice is owned by
// the graph and invalidated by RemoveEdge.
func (g *UndirectedGraph) Neighbors(v int) []int { return g.adj[v] }

// SortEdgesByWeight sorts the edge arrays by ascending weight. The hierarchy
// driver consumes them from the back, i.e. in decreasing weight order.
func (g *UndirectedGraph) SortEdgesByWeight() {
	sort.Stable(edgesByWeight{g})
}

type edgesByWeight struct{ g *UndirectedGraph }

func (e edgesByWeight) Len() int           { return len(e.g.weights) }
func (e edgesByWeight) Less(i, j int) bool { return e.g.weights[i] < e.g.weights[j] }
func (e edgesByWeight) Swap(i, j int) {
	g := e.g
	g.weights[i], g.weights[j] = g.weights[j], g.weights[i]
	g.verticesA[i], g.verticesA[j] = g.verticesA[j], g.verticesA[i]
	g.verticesB[i], g.verticesB[j] = g.verticesB[j], g.verticesB[i]
}

// RemoveEdge removes one occurrence of the undirected edge between a and b
// from the adjacency lists. The edge arrays are untouched.
func (g *UndirectedGraph) RemoveEdge(a, b int) {
	g.removeFromAdjacency(a, b)
	if a != b {
		g.removeFromAdjacency(b, a)
	}
}

func (g *UndirectedGraph) removeFromAdjacency(v, neighbor int) {
	list := g.adj[v]
	for i, w := range list {
		if w == neighbor {
			list[i] = list[len(list)-1]
			g.adj[v] = list[:len(list)-1]
			return
		}
	}
}

// ConstructMST builds the minimum spanning tree of the complete mutual
// reachability graph: the metric between points a and b is
// max(dist(a,b), core(a), core(b)). distMatrix is flat n*n row-major.
//
// The scan is a dense Prim variant: starting from point n-1, every
// unattached point tracks its nearest attached neighbor under mutual
// reachability, and the globally closest unattached point is attached next.
// Ties are broken toward the first point index encountered during the scan,
// so the result is deterministic. O(n²) time, O(n) extra memory.
//
// The tree has exactly n-1 edges. With selfEdges, n additional self-loops
// are appended, one per point, weighted by the point's own core distance;
// the hierarchy driver uses them to carry singletons down to their own
// density level.
func ConstructMST(distMatrix []float64, coreDistances []float64, n int, selfEdges bool) *UndirectedGraph {
	if n < 2 {
		return newUndirectedGraph(n, nil, nil, nil)
	}

	selfEdgeCapacity := 0
	if selfEdges {
		selfEdgeCapacity = n
	}

	attached := bitset.New(uint(n))

	// nearestMRDNeighbors[i] is the attached point closest to unattached
	// point i; nearestMRDDistances[i] the corresponding distance.
	nearestMRDNeighbors := make([]int, n-1+selfEdgeCapacity)
	nearestMRDDistances := make([]float64, n-1+selfEdgeCapacity)
	for i := 0; i < n-1; i++ {
		nearestMRDDistances[i] = math.MaxFloat64
	}

	currentPoint := n - 1
	attached.Set(uint(n - 1))
	numAttached := 1

	for numAttached < n {
		nearestMRDPoint := -1
		nearestMRDDistance := math.MaxFloat64

		for neighbor := 0; neighbor < n; neighbor++ {
			if neighbor == currentPoint || attached.Test(uint(neighbor)) {
				continue
			}

			mrd := distMatrix[currentPoint*n+neighbor]
			if coreDistances[currentPoint] > mrd {
				mrd = coreDistances[currentPoint]
			}
			if coreDistances[neighbor] > mrd {
				mrd = coreDistances[neighbor]
			}

			if mrd < nearestMRDDistances[neighbor] {
				nearestMRDDistances[neighbor] = mrd
				nearestMRDNeighbors[neighbor] = currentPoint
			}

			// Strict < keeps the first index encountered on ties.
			if nearestMRDDistances[neighbor] < nearestMRDDistance {
				nearestMRDDistance = nearestMRDDistances[neighbor]
				nearestMRDPoint = neighbor
			}
		}

		attached.Set(uint(nearestMRDPoint))
		numAttached++
		currentPoint = nearestMRDPoint
	}

	// Edge i connects point i to its recorded nearest attached neighbor.
	otherVertexIndices := make([]int, n-1+selfEdgeCapacity)
	for i := 0; i < n-1; i++ {
		otherVertexIndices[i] = i
	}
	if selfEdges {
		for i := n - 1; i < 2*n-1; i++ {
			vertex := i - (n - 1)
			nearestMRDNeighbors[i] = vertex
			otherVertexIndices[i] = vertex
			nearestMRDDistances[i] = coreDistances[vertex]
		}
	}

	for _, w := range nearestMRDDistances {
		if math.IsInf(w, 1) {
			log.Printf("hdbscanstar: MST contains edge(s) with +Inf weight (disconnected input)")
			break
		}
	}

	return newUndirectedGraph(n, nearestMRDNeighbors, otherVertexIndices, nearestMRDDistances)
}
