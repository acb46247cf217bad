package hdbscanstar

import "math"

// CoreDistances computes the core distance of every point: its distance to
// the k-th nearest neighbor, counting the point itself. distMatrix is flat
// n*n row-major. k is clamped to [1, n], so k == 1 yields all zeros and
// k > n falls back to the distance to the farthest neighbor.
func CoreDistances(distMatrix []float64, n, k int) []float64 {
	k = min(k, n)
	k = max(k, 1)

	core := make([]float64, n)
	numNeighbors := k - 1
	if numNeighbors == 0 {
		return core
	}

	knn := make([]float64, numNeighbors)
	for point := 0; point < n; point++ {
		core[point] = kthNearestDistance(distMatrix, n, point, knn)
	}
	return core
}

// kthNearestDistance returns the len(knn)-th smallest distance from point to
// any other point. Rather than sorting the full row, knn is maintained as a
// sorted insertion buffer of the smallest distances seen so far (O(n*k)).
// The buffer is reset in place, so callers may reuse it across points.
func kthNearestDistance(distMatrix []float64, n, point int, knn []float64) float64 {
	numNeighbors := len(knn)
	for i := range knn {
		knn[i] = math.MaxFloat64
	}

	for neighbor := 0; neighbor < n; neighbor++ {
		if neighbor == point {
			continue
		}
		d := distMatrix[point*n+neighbor]

		// Find the insertion slot among the current nearest distances.
		idx := numNeighbors
		for idx >= 1 && d < knn[idx-1] {
			idx--
		}
		if idx < numNeighbors {
			copy(knn[idx+1:], knn[idx:numNeighbors-1])
			knn[idx] = d
		}
	}

	return knn[numNeighbors-1]
}
