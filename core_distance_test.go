package hdbscanstar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3-4-5 right triangle: d01=3, d02=4, d12=5.
var triangleMatrix = []float64{
	0, 3, 4,
	3, 0, 5,
	4, 5, 0,
}

func TestCoreDistances_KEquals1_AllZero(t *testing.T) {
	core := CoreDistances(triangleMatrix, 3, 1)

	require.Len(t, core, 3)
	for i, c := range core {
		assert.Zero(t, c, "core[%d]", i)
	}
}

func TestCoreDistances_Triangle(t *testing.T) {
	tests := []struct {
		name     string
		k        int
		expected []float64
	}{
		{"k=2 nearest neighbor", 2, []float64{3, 3, 4}},
		{"k=3 farthest neighbor", 3, []float64{4, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := CoreDistances(triangleMatrix, 3, tt.k)
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], core[i], floatTol, "core[%d]", i)
			}
		})
	}
}

func TestCoreDistances_KBeyondN_ClampsToFarthest(t *testing.T) {
	clamped := CoreDistances(triangleMatrix, 3, 10)
	farthest := CoreDistances(triangleMatrix, 3, 3)

	assert.Equal(t, farthest, clamped)
}

func TestCoreDistances_MonotonicInK(t *testing.T) {
	distMatrix, n := distanceMatrix([][]float64{
		{0, 0}, {1, 0}, {0, 2}, {3, 3}, {5, 1},
	})

	prev := CoreDistances(distMatrix, n, 1)
	for k := 2; k <= n; k++ {
		curr := CoreDistances(distMatrix, n, k)
		for i := 0; i < n; i++ {
			assert.GreaterOrEqual(t, curr[i]+floatTol, prev[i],
				"core[%d] decreased from k=%d to k=%d", i, k-1, k)
		}
		prev = curr
	}
}

func TestCoreDistances_TwoPairScenario(t *testing.T) {
	distMatrix, n := distanceMatrix(twoPairData)

	core := CoreDistances(distMatrix, n, 2)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, core[i], floatTol, "core[%d]", i)
	}
}
