package hdbscanstar

// ConstraintType distinguishes must-link from cannot-link constraints.
type ConstraintType int

const (
	// MustLink requires both points to end up in the same cluster.
	MustLink ConstraintType = iota
	// CannotLink requires the points to end up in different clusters.
	CannotLink
)

// Constraint is an instance-level pairwise constraint between two points.
type Constraint struct {
	PointA int
	PointB int
	Type   ConstraintType
}

// CalculateNumConstraintsSatisfied tallies constraint satisfaction against
// the clusters created in one round of splitting. newClusterLabels holds the
// non-zero labels created this round; pointLabels is the current
// point-to-label assignment.
//
// A must-link whose endpoints share one of the new labels credits that
// cluster with 2. A cannot-link whose endpoints differ credits each new
// endpoint cluster with 1; a noise endpoint is credited to the first
// distinct parent whose virtual child cluster holds the point. Every
// parent's virtual child record is released at the end of the round.
func (t *ClusterTree) CalculateNumConstraintsSatisfied(newClusterLabels []int, constraints []Constraint, pointLabels []int) {
	if len(constraints) == 0 {
		return
	}

	isNew := make(map[int]bool, len(newClusterLabels))
	for _, label := range newClusterLabels {
		isNew[label] = true
	}

	// Distinct parents of the new clusters, in first-seen order.
	var parents []*Cluster
	seen := make(map[int]bool)
	for _, label := range newClusterLabels {
		parentLabel := t.clusters[label].parent
		if parentLabel >= 0 && !seen[parentLabel] {
			seen[parentLabel] = true
			parents = append(parents, t.clusters[parentLabel])
		}
	}

	for _, constraint := range constraints {
		labelA := pointLabels[constraint.PointA]
		labelB := pointLabels[constraint.PointB]

		switch {
		case constraint.Type == MustLink && labelA == labelB:
			if isNew[labelA] {
				t.clusters[labelA].addConstraintsSatisfied(2)
			}

		case constraint.Type == CannotLink && (labelA != labelB || labelA == 0):
			if labelA != 0 && isNew[labelA] {
				t.clusters[labelA].addConstraintsSatisfied(1)
			}
			if labelB != 0 && isNew[labelB] {
				t.clusters[labelB].addConstraintsSatisfied(1)
			}
			if labelA == 0 {
				creditVirtualChild(parents, constraint.PointA)
			}
			if labelB == 0 {
				creditVirtualChild(parents, constraint.PointB)
			}
		}
	}

	for _, parent := range parents {
		parent.releaseVirtualChildCluster()
	}
}

// creditVirtualChild awards one cannot-link credit to the first parent whose
// virtual child cluster contains the point.
func creditVirtualChild(parents []*Cluster, point int) {
	for _, parent := range parents {
		if parent.VirtualChildContains(point) {
			parent.addVirtualChildConstraintsSatisfied(1)
			return
		}
	}
}
