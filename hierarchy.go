package hdbscanstar

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Hierarchy is the cluster tree built by removing MST edges in decreasing
// weight order, plus the per-point noise bookkeeping the outlier scorer
// consumes.
type Hierarchy struct {
	Tree *ClusterTree

	// PointNoiseLevels[i] is the edge weight at which point i became noise;
	// PointLastClusters[i] the label it held just before.
	PointNoiseLevels  []float64
	PointLastClusters []int

	// clusterPoints holds, per label, the points assigned to the cluster
	// when it was created; ProminentClusters flattens from these.
	clusterPoints map[int][]int
	numPoints     int
}

// ComputeHierarchy consumes the MST's edges in decreasing weight order,
// splitting clusters as components disconnect. A cluster that loses points
// but stays in one valid piece keeps its label; a cluster that breaks into
// two or more valid components spawns a new cluster per component.
// Components smaller than minClusterSize, or with no remaining edges, fall
// to noise. Constraint satisfaction is tallied after every round that
// creates clusters. The graph's adjacency lists are consumed in the process.
func ComputeHierarchy(mst *UndirectedGraph, minClusterSize int, constraints []Constraint) (*Hierarchy, error) {
	if mst == nil || mst.NumVertices() < 2 {
		return nil, fmt.Errorf("hdbscanstar: hierarchy requires an MST over at least 2 points: %w", ErrInvalidParameter)
	}
	if minClusterSize < 1 {
		return nil, fmt.Errorf("hdbscanstar: minClusterSize must be >= 1, got %d: %w", minClusterSize, ErrInvalidParameter)
	}

	n := mst.NumVertices()
	mst.SortEdgesByWeight()

	h := &Hierarchy{
		Tree:              NewClusterTree(n),
		PointNoiseLevels:  make([]float64, n),
		PointLastClusters: make([]int, n),
		clusterPoints:     make(map[int][]int),
		numPoints:         n,
	}

	pointLabels := make([]int, n)
	for i := range pointLabels {
		pointLabels[i] = 1
	}

	edgeIndex := mst.NumEdges() - 1
	for edgeIndex >= 0 {
		_, _, currentEdgeWeight := mst.Edge(edgeIndex)

		// Remove every edge at the current weight level. Both endpoints of
		// a surviving tree edge always share a label.
		affectedVertices := make(map[int]struct{})
		affectedLabels := make(map[int]struct{})
		for edgeIndex >= 0 {
			a, b, w := mst.Edge(edgeIndex)
			if w != currentEdgeWeight {
				break
			}
			mst.RemoveEdge(a, b)
			edgeIndex--
			if pointLabels[a] == 0 {
				continue
			}
			affectedVertices[a] = struct{}{}
			affectedVertices[b] = struct{}{}
			affectedLabels[pointLabels[a]] = struct{}{}
		}
		if len(affectedLabels) == 0 {
			continue
		}

		var newClusterLabels []int
		explored := bitset.New(uint(n))

		// Largest label first: deeper clusters split before their ancestors.
		for _, examinedLabel := range sortedKeysDesc(affectedLabels) {
			examined := verticesWithLabel(affectedVertices, pointLabels, examinedLabel)
			sort.Sort(sort.Reverse(sort.IntSlice(examined)))

			var firstComponent []int
			splitCount := 0

			for _, rootVertex := range examined {
				if explored.Test(uint(rootVertex)) {
					continue
				}
				component, anyEdges := exploreComponent(mst, rootVertex, explored)

				if anyEdges && len(component) >= minClusterSize {
					if firstComponent == nil {
						firstComponent = component
						continue
					}
					label := h.Tree.NextLabel()
					h.newCluster(component, pointLabels, examinedLabel, label, currentEdgeWeight)
					newClusterLabels = append(newClusterLabels, label)
					splitCount++
					continue
				}

				// Undersized or edgeless: straight to noise.
				h.Tree.CreateNewCluster(component, pointLabels, h.Tree.Cluster(examinedLabel), 0, currentEdgeWeight)
				for _, v := range component {
					h.PointNoiseLevels[v] = currentEdgeWeight
					h.PointLastClusters[v] = examinedLabel
				}
			}

			// A lone surviving component means the cluster only shrank and
			// keeps its label; a real split relabels every valid component.
			if firstComponent != nil && splitCount > 0 {
				label := h.Tree.NextLabel()
				h.newCluster(firstComponent, pointLabels, examinedLabel, label, currentEdgeWeight)
				newClusterLabels = append(newClusterLabels, label)
			}
		}

		if len(constraints) == 0 {
			// Virtual child records are single-round state; without
			// constraints nothing will ever read them.
			for label := range affectedLabels {
				h.Tree.Cluster(label).releaseVirtualChildCluster()
			}
		} else if len(newClusterLabels) > 0 {
			h.Tree.CalculateNumConstraintsSatisfied(newClusterLabels, constraints, pointLabels)
		}
	}

	return h, nil
}

// ProminentClusters flattens the propagated tree: each point is labeled by
// the selected cluster whose creation set contains it, 0 for noise. The
// selected clusters are the root's propagated descendants; they form an
// antichain in the tree, so their creation sets never overlap.
func (h *Hierarchy) ProminentClusters() ([]int, error) {
	if !h.Tree.propagated {
		return nil, fmt.Errorf("hdbscanstar: prominent clusters requested before propagation: %w", ErrInconsistentState)
	}

	labels := make([]int, h.numPoints)
	for _, label := range h.Tree.Root().propagatedDescendants {
		for _, p := range h.clusterPoints[label] {
			labels[p] = label
		}
	}
	return labels, nil
}

// newCluster creates a real (non-noise) cluster and records its creation
// point set for flat extraction.
func (h *Hierarchy) newCluster(points []int, pointLabels []int, parentLabel, label int, edgeWeight float64) {
	h.Tree.CreateNewCluster(points, pointLabels, h.Tree.Cluster(parentLabel), label, edgeWeight)
	recorded := make([]int, len(points))
	copy(recorded, points)
	h.clusterPoints[label] = recorded
}

// exploreComponent walks the remaining adjacency from rootVertex, returning
// the component's vertices and whether any edge was seen. A vertex whose
// last self-edge is gone reports no edges.
func exploreComponent(g *UndirectedGraph, rootVertex int, explored *bitset.BitSet) ([]int, bool) {
	component := []int{rootVertex}
	queue := []int{rootVertex}
	explored.Set(uint(rootVertex))
	anyEdges := false

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.Neighbors(v) {
			anyEdges = true
			if !explored.Test(uint(w)) {
				explored.Set(uint(w))
				component = append(component, w)
				queue = append(queue, w)
			}
		}
	}
	return component, anyEdges
}

func verticesWithLabel(vertices map[int]struct{}, pointLabels []int, label int) []int {
	var result []int
	for v := range vertices {
		if pointLabels[v] == label {
			result = append(result, v)
		}
	}
	return result
}

func sortedKeysDesc(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
