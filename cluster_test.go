package hdbscanstar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClusterTree(t *testing.T) {
	tree := NewClusterTree(10)

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, 1, root.Label)
	assert.Equal(t, -1, root.ParentLabel())
	assert.Equal(t, 10, root.NumPoints())
	assert.False(t, root.HasChildren())
	assert.True(t, math.IsNaN(root.BirthLevel))

	assert.Nil(t, tree.Cluster(0), "label 0 is noise, never a node")
	assert.Equal(t, 2, tree.NextLabel())
}

func TestCreateNewCluster_RealCluster(t *testing.T) {
	tree := NewClusterTree(4)
	labels := []int{1, 1, 1, 1}

	c := tree.CreateNewCluster([]int{0, 1}, labels, tree.Root(), 2, 2.0)

	require.NotNil(t, c)
	assert.Equal(t, []int{2, 2, 1, 1}, labels)
	assert.Equal(t, 2, c.Label)
	assert.Equal(t, 1, c.ParentLabel())
	assert.Equal(t, 2.0, c.BirthLevel)
	assert.Equal(t, 2, c.NumPoints())
	assert.True(t, tree.Root().HasChildren())
	assert.Same(t, c, tree.Cluster(2))
	assert.Equal(t, 2, tree.Root().NumPoints(), "parent lost the detached points")
	assert.Equal(t, 3, tree.NextLabel())
}

func TestCreateNewCluster_NoiseRegistersVirtualChild(t *testing.T) {
	tree := NewClusterTree(4)
	labels := []int{1, 1, 1, 1}
	parent := tree.CreateNewCluster([]int{0, 1, 2, 3}, labels, tree.Root(), 2, 2.0)

	got := tree.CreateNewCluster([]int{2, 3}, labels, parent, 0, 1.0)

	assert.Nil(t, got)
	assert.Equal(t, []int{2, 2, 0, 0}, labels)
	assert.False(t, parent.HasChildren())
	assert.True(t, parent.VirtualChildContains(2))
	assert.True(t, parent.VirtualChildContains(3))
	assert.False(t, parent.VirtualChildContains(0))
}

func TestDetachPoints_StabilityFormula(t *testing.T) {
	tree := NewClusterTree(3)
	labels := []int{1, 1, 1}
	c := tree.CreateNewCluster([]int{0, 1, 2}, labels, tree.Root(), 2, 2.0)

	// Two removal events: expected sum of pointsRemoved*(1/death - 1/birth).
	tree.CreateNewCluster([]int{0}, labels, c, 0, 1.5)
	tree.CreateNewCluster([]int{1, 2}, labels, c, 0, 1.0)

	expected := 1*(1/1.5-1/2.0) + 2*(1/1.0-1/2.0)
	assert.InDelta(t, expected, c.Stability, floatTol)
	assert.Equal(t, 0, c.NumPoints())
	assert.Equal(t, 1.0, c.DeathLevel, "death level fixed when the last point left")
}

func TestDetachPoints_BirthLevelZero_InfiniteStability(t *testing.T) {
	tree := NewClusterTree(2)
	labels := []int{1, 1}
	c := tree.CreateNewCluster([]int{0, 1}, labels, tree.Root(), 2, 0.0)

	tree.CreateNewCluster([]int{0, 1}, labels, c, 0, 0.0)

	assert.True(t, math.IsInf(c.Stability, 1))
}

func TestCreateNewCluster_WrongLabelPanics(t *testing.T) {
	tree := NewClusterTree(2)
	labels := []int{1, 1}

	assert.Panics(t, func() {
		tree.CreateNewCluster([]int{0}, labels, tree.Root(), 7, 1.0)
	})
}
