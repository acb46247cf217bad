package hdbscanstar

import (
	"fmt"
	"math"
)

// Cluster is one node of the cluster tree. Clusters are created by
// [ClusterTree.CreateNewCluster] as MST edges are removed in decreasing
// weight order. Label 0 is reserved for noise and never materializes as a
// node.
type Cluster struct {
	// Label is the cluster's unique non-negative identifier and its index
	// in the owning ClusterTree.
	Label int

	// BirthLevel is the mutual reachability edge weight at which the
	// cluster was created; DeathLevel the weight at which its last point
	// left it.
	BirthLevel float64
	DeathLevel float64

	// Stability accumulates pointsRemoved*(1/deathWeight - 1/birthWeight)
	// over every point-removal event. A birth level of 0 makes it +Inf.
	Stability float64

	// NumConstraintsSatisfied counts constraint credit won by this cluster
	// itself; the Propagated fields are valid only after
	// [ClusterTree.Propagate].
	NumConstraintsSatisfied           int
	PropagatedNumConstraintsSatisfied int
	PropagatedStability               float64
	PropagatedLowestChildDeathLevel   float64

	parent      int // parent label, -1 for the root
	hasChildren bool
	numPoints   int

	// virtualChildCluster records points that fell straight to noise from
	// this cluster; it lives only until the end of the constraint round.
	virtualChildCluster map[int]struct{}

	propagatedDescendants []int
}

// ParentLabel returns the label of the cluster this one split from, or -1
// for the root.
func (c *Cluster) ParentLabel() int { return c.parent }

// HasChildren reports whether any non-noise cluster has split from this one.
func (c *Cluster) HasChildren() bool { return c.hasChildren }

// NumPoints returns the number of points still assigned to the cluster.
func (c *Cluster) NumPoints() int { return c.numPoints }

// PropagatedDescendants returns the labels of the descendants (or this
// cluster itself) that won the stability comparison during propagation.
// Valid only after [ClusterTree.Propagate].
func (c *Cluster) PropagatedDescendants() []int { return c.propagatedDescendants }

// VirtualChildContains reports whether the point fell to noise directly from
// this cluster in the current constraint round.
func (c *Cluster) VirtualChildContains(point int) bool {
	_, ok := c.virtualChildCluster[point]
	return ok
}

// detachPoints removes numPoints points from the cluster at the given edge
// weight, accumulating stability and fixing the death level once the
// cluster is empty.
func (c *Cluster) detachPoints(numPoints int, level float64) {
	c.numPoints -= numPoints
	if c.BirthLevel == 0 {
		c.Stability = math.Inf(1)
	} else {
		c.Stability += float64(numPoints) * (1/level - 1/c.BirthLevel)
	}
	if c.numPoints == 0 {
		c.DeathLevel = level
	}
}

func (c *Cluster) addPointsToVirtualChildCluster(points []int) {
	if c.virtualChildCluster == nil {
		c.virtualChildCluster = make(map[int]struct{}, len(points))
	}
	for _, p := range points {
		c.virtualChildCluster[p] = struct{}{}
	}
}

func (c *Cluster) releaseVirtualChildCluster() { c.virtualChildCluster = nil }

func (c *Cluster) addConstraintsSatisfied(n int) { c.NumConstraintsSatisfied += n }

// addVirtualChildConstraintsSatisfied credits cannot-link satisfaction won
// by points in the virtual child cluster. The credit goes straight into the
// propagated total, since the virtual child never materializes as a node.
func (c *Cluster) addVirtualChildConstraintsSatisfied(n int) {
	c.PropagatedNumConstraintsSatisfied += n
}

// ClusterTree is an arena of clusters addressed by label. Index 0 is the
// noise label and holds no cluster. All structural mutation goes through
// the tree, never through parent pointers.
type ClusterTree struct {
	clusters   []*Cluster
	propagated bool
	visits     int // clusters visited by the last propagation pass
}

// NewClusterTree creates a tree holding a root cluster (label 1) that
// initially owns all numPoints points. The root's birth level is NaN, so it
// loses every stability comparison and selection always descends below it.
func NewClusterTree(numPoints int) *ClusterTree {
	root := &Cluster{
		Label:                           1,
		BirthLevel:                      math.NaN(),
		parent:                          -1,
		numPoints:                       numPoints,
		PropagatedLowestChildDeathLevel: math.Inf(1),
	}
	return &ClusterTree{clusters: []*Cluster{nil, root}}
}

// Root returns the root cluster (label 1).
func (t *ClusterTree) Root() *Cluster { return t.clusters[1] }

// Cluster returns the cluster with the given label, or nil for the noise
// label 0.
func (t *ClusterTree) Cluster(label int) *Cluster { return t.clusters[label] }

// Clusters returns the arena slice indexed by label; index 0 is nil.
// Callers must treat it as read-only.
func (t *ClusterTree) Clusters() []*Cluster { return t.clusters }

// NextLabel returns the label the next created cluster will receive.
func (t *ClusterTree) NextLabel() int { return len(t.clusters) }

// CreateNewCluster removes points from the parent's extent at edgeWeight,
// reassigning each point's entry in pointLabels to label. A non-zero label
// materializes a new cluster node in the arena and returns it; label must
// then equal [ClusterTree.NextLabel]. Label 0 instead records the points as
// the parent's virtual child cluster and returns nil.
func (t *ClusterTree) CreateNewCluster(points []int, pointLabels []int, parent *Cluster, label int, edgeWeight float64) *Cluster {
	for _, p := range points {
		pointLabels[p] = label
	}
	parent.detachPoints(len(points), edgeWeight)

	if label == 0 {
		parent.addPointsToVirtualChildCluster(points)
		return nil
	}

	if label != len(t.clusters) {
		panic(fmt.Sprintf("hdbscanstar: new cluster label %d, want %d", label, len(t.clusters)))
	}
	c := &Cluster{
		Label:                           label,
		BirthLevel:                      edgeWeight,
		parent:                          parent.Label,
		numPoints:                       len(points),
		PropagatedLowestChildDeathLevel: math.Inf(1),
	}
	parent.hasChildren = true
	t.clusters = append(t.clusters, c)
	return c
}
