package hdbscanstar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomData generates n deterministic pseudo-random points.
func randomData(n, dims int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = rng.Float64() * 100
	}
	return data
}

func TestPairwiseDistancesParallel_MatchesSerial(t *testing.T) {
	const n, dims = 37, 3
	data := randomData(n, dims, 1)

	serial := PairwiseDistances(data, n, dims, EuclideanMetric{})
	for _, workers := range []int{2, 4, 7, n + 5} {
		parallel := PairwiseDistancesParallel(data, n, dims, EuclideanMetric{}, workers)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestPairwiseDistancesParallel_SingleWorkerFallback(t *testing.T) {
	const n, dims = 5, 2
	data := randomData(n, dims, 2)

	serial := PairwiseDistances(data, n, dims, ManhattanMetric{})
	assert.Equal(t, serial, PairwiseDistancesParallel(data, n, dims, ManhattanMetric{}, 1))
	assert.Equal(t, serial, PairwiseDistancesParallel(data, n, dims, ManhattanMetric{}, 0))
}

func TestCoreDistancesParallel_MatchesSerial(t *testing.T) {
	const n, dims = 41, 2
	data := randomData(n, dims, 3)
	distMatrix := PairwiseDistances(data, n, dims, EuclideanMetric{})

	for _, k := range []int{1, 2, 5, n, n + 10} {
		serial := CoreDistances(distMatrix, n, k)
		for _, workers := range []int{2, 4, 8} {
			parallel := CoreDistancesParallel(distMatrix, n, k, workers)
			assert.Equal(t, serial, parallel, "k=%d workers=%d", k, workers)
		}
	}
}

func TestCoreDistancesParallel_KOne_AllZeros(t *testing.T) {
	distMatrix, n := distanceMatrix(twoPairData)

	core := CoreDistancesParallel(distMatrix, n, 1, 4)
	require.Len(t, core, n)
	for i, c := range core {
		assert.Zero(t, c, "point %d", i)
	}
}
