package hdbscanstar

import "sync"

// PairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// numWorkers controls the degree of parallelism; if <= 1, it falls back to
// single-threaded PairwiseDistances.
//
// The result is bitwise identical to PairwiseDistances.
func PairwiseDistancesParallel(data []float64, n, dims int, metric DistanceMetric, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return PairwiseDistances(data, n, dims, metric)
	}

	result := make([]float64, n*n)

	// Split rows across workers. Each worker handles a contiguous range of
	// "source" rows and computes dist(i,j) for all j > i in that range.
	// Since row ranges don't overlap, no synchronization is needed for writes.
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return result
}

// CoreDistancesParallel computes core distances using multiple goroutines.
// Each worker handles a contiguous range of points independently and is
// bitwise identical to CoreDistances. Falls back to the sequential version
// if numWorkers <= 1.
//
// The MST construction deliberately has no parallel variant: its tie-break
// order depends on a single sequential scan.
func CoreDistancesParallel(distMatrix []float64, n, k, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return CoreDistances(distMatrix, n, k)
	}

	k = min(k, n)
	k = max(k, 1)

	core := make([]float64, n)
	numNeighbors := k - 1
	if numNeighbors == 0 {
		return core
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			knn := make([]float64, numNeighbors)
			for point := start; point < end; point++ {
				core[point] = kthNearestDistance(distMatrix, n, point, knn)
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return core
}
