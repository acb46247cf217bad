package hdbscanstar

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/emirpasic/gods/maps/treemap"
)

// Propagate performs the single bottom-up aggregation pass over the cluster
// tree: stability, satisfied constraints and the lowest child death level
// flow from the leaves to the root. It must be called exactly once, after
// hierarchy construction is complete and before outlier scoring or flat
// extraction. The boolean reports whether any cluster has infinite
// stability, i.e. was born at level 0.
func (t *ClusterTree) Propagate() (bool, error) {
	if t.propagated {
		return false, fmt.Errorf("hdbscanstar: cluster tree already propagated: %w", ErrInconsistentState)
	}

	// Work-queue keyed by label with insert-or-replace semantics; a
	// separate bitset tracks what has ever been enqueued.
	toExamine := treemap.NewWithIntComparator()
	enqueued := bitset.New(uint(len(t.clusters)))
	infiniteStability := false

	for _, c := range t.clusters {
		if c != nil && !c.hasChildren {
			toExamine.Put(c.Label, c)
			enqueued.Set(uint(c.Label))
		}
	}

	// Children always carry larger labels than their parents, so popping
	// the maximum label visits every child before its parent.
	for !toExamine.Empty() {
		label, value := toExamine.Max()
		toExamine.Remove(label)
		c := value.(*Cluster)
		t.visits++

		c.propagate(t)
		if math.IsInf(c.Stability, 1) {
			infiniteStability = true
		}

		if c.parent >= 0 {
			parent := t.clusters[c.parent]
			if !enqueued.Test(uint(parent.Label)) {
				toExamine.Put(parent.Label, parent)
				enqueued.Set(uint(parent.Label))
			}
		}
	}

	t.propagated = true
	return infiniteStability, nil
}

// propagate folds this cluster's result into its parent. Leaves and
// infinitely stable clusters represent themselves; otherwise the larger of
// the cluster's own stability and its children's propagated sum decides
// whether the node or its propagated descendants carry upward. The infinite
// case is gated explicitly so +Inf never leaks into a finite comparison.
func (c *Cluster) propagate(t *ClusterTree) {
	if math.IsInf(c.PropagatedLowestChildDeathLevel, 1) {
		// No child has reported: the lowest death level is our own.
		c.PropagatedLowestChildDeathLevel = c.DeathLevel
	}
	if c.parent < 0 {
		return
	}
	parent := t.clusters[c.parent]

	if c.PropagatedLowestChildDeathLevel < parent.PropagatedLowestChildDeathLevel {
		parent.PropagatedLowestChildDeathLevel = c.PropagatedLowestChildDeathLevel
	}

	selfWins := !c.hasChildren ||
		math.IsInf(c.Stability, 1) ||
		c.Stability >= c.PropagatedStability

	if selfWins {
		parent.PropagatedNumConstraintsSatisfied += c.NumConstraintsSatisfied
		parent.PropagatedStability += c.Stability
		parent.propagatedDescendants = append(parent.propagatedDescendants, c.Label)
	} else {
		parent.PropagatedNumConstraintsSatisfied += c.PropagatedNumConstraintsSatisfied
		parent.PropagatedStability += c.PropagatedStability
		parent.propagatedDescendants = append(parent.propagatedDescendants, c.propagatedDescendants...)
	}
}
