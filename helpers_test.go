package hdbscanstar

const floatTol = 1e-9

// twoPairData is the canonical small scenario: two tight pairs far apart.
// With K=2 every core distance is 1.0; the MST joins each pair internally
// at weight 1.0 and bridges them with one long edge of weight sqrt(181)
// (between (0,1) and (10,10)).
var twoPairData = [][]float64{
	{0, 0},
	{0, 1},
	{10, 10},
	{10, 11},
}

// flatten converts row-per-point data into the flat row-major layout the
// pipeline uses, returning (flat, n, dims).
func flatten(data [][]float64) ([]float64, int, int) {
	n := len(data)
	if n == 0 {
		return nil, 0, 0
	}
	dims := len(data[0])
	flat := make([]float64, n*dims)
	for i, row := range data {
		copy(flat[i*dims:], row)
	}
	return flat, n, dims
}

// distanceMatrix computes the flat Euclidean distance matrix for the data.
func distanceMatrix(data [][]float64) ([]float64, int) {
	flat, n, dims := flatten(data)
	return PairwiseDistances(flat, n, dims, EuclideanMetric{}), n
}
