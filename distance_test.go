package hdbscanstar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}

	tests := []struct {
		name     string
		metric   DistanceMetric
		expected float64
	}{
		{"euclidean", EuclideanMetric{}, 5},
		{"manhattan", ManhattanMetric{}, 7},
		{"chebyshev", ChebyshevMetric{}, 4},
		{"minkowski p=1", MinkowskiMetric{P: 1}, 7},
		{"minkowski p=2", MinkowskiMetric{P: 2}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.metric.Distance(a, b), floatTol)
		})
	}
}

func TestCosineMetric(t *testing.T) {
	assert.InDelta(t, 1.0, CosineMetric{}.Distance([]float64{1, 0}, []float64{0, 1}), floatTol)
	assert.InDelta(t, 0.0, CosineMetric{}.Distance([]float64{2, 2}, []float64{5, 5}), floatTol)
}

func TestMinkowskiMetric_PanicsBelowOne(t *testing.T) {
	assert.Panics(t, func() {
		MinkowskiMetric{P: 0.5}.Distance([]float64{0}, []float64{1})
	})
}

func TestDistanceFunc_Adapter(t *testing.T) {
	m := DistanceFunc(func(a, b []float64) float64 { return 42 })
	assert.Equal(t, 42.0, m.Distance(nil, nil))
}

func TestPairwiseDistances(t *testing.T) {
	flat, n, dims := flatten([][]float64{{0, 0}, {3, 0}, {0, 4}})
	matrix := PairwiseDistances(flat, n, dims, EuclideanMetric{})

	require.Len(t, matrix, n*n)
	for i := 0; i < n; i++ {
		assert.Zero(t, matrix[i*n+i], "diagonal[%d]", i)
		for j := 0; j < n; j++ {
			assert.Equal(t, matrix[j*n+i], matrix[i*n+j], "symmetry (%d,%d)", i, j)
		}
	}
	assert.InDelta(t, 3.0, matrix[0*n+1], floatTol)
	assert.InDelta(t, 4.0, matrix[0*n+2], floatTol)
	assert.InDelta(t, 5.0, matrix[1*n+2], floatTol)
}
