package hdbscanstar

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrInvalidParameter reports arguments rejected before any computation
	// begins: bad k, empty or mis-sized matrices, out-of-range constraint
	// endpoints.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInconsistentState reports operations invoked out of contract
	// order, e.g. outlier scoring before the tree has been propagated, or
	// propagating twice.
	ErrInconsistentState = errors.New("inconsistent state")
)

// Config controls HDBSCAN* clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// K selects the neighbor used for core distances: each point's core
	// distance is its distance to the k-th nearest neighbor, counting the
	// point itself, so K == 1 makes every core distance 0.
	// Must be >= 1. Default: 5.
	K int

	// MinClusterSize is the smallest component that survives as a cluster
	// during hierarchy construction; smaller components fall to noise.
	// Must be >= 1. Default: 5.
	MinClusterSize int

	// SelfEdges appends one self-loop per point to the MST, weighted by the
	// point's core distance, so singletons persist in the hierarchy down to
	// their own density level. Default: false.
	SelfEdges bool

	// Constraints are optional must-link/cannot-link point pairs whose
	// satisfaction is tallied on the cluster tree during splitting.
	Constraints []Constraint

	// Workers controls the number of goroutines for the pairwise-distance
	// and core-distance stages. 0 means runtime.NumCPU(). The MST scan is
	// always single-threaded to keep its tie-break order deterministic.
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{K: 5, MinClusterSize: 5}
}

// Result contains the output of HDBSCAN* clustering.
type Result struct {
	// Labels assigns each point a cluster label; 0 is noise. Labels are the
	// tree's internal cluster labels, not renumbered.
	Labels []int

	// Probabilities indicates how strongly each point belongs to its
	// assigned cluster, in [0, 1]. Noise points have probability 0.
	Probabilities []float64

	// OutlierScores holds one record per point, sorted by descending score.
	OutlierScores []OutlierScore

	// CoreDistances is each point's distance to its K-th nearest neighbor.
	CoreDistances []float64

	// Tree is the propagated cluster tree, for downstream selection stages.
	Tree *ClusterTree

	// InfiniteStability reports that some cluster was born at level 0, a
	// degenerate-input signal (duplicate points), not an error.
	InfiniteStability bool
}

func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks cfg and returns a descriptive error if invalid.
func validateConfig(cfg *Config) error {
	if cfg.K < 1 {
		return fmt.Errorf("hdbscanstar: K must be >= 1, got %d: %w", cfg.K, ErrInvalidParameter)
	}
	if cfg.MinClusterSize < 1 {
		return fmt.Errorf("hdbscanstar: MinClusterSize must be >= 1, got %d: %w", cfg.MinClusterSize, ErrInvalidParameter)
	}
	return nil
}

// Run performs HDBSCAN* clustering on a precomputed distance matrix.
// distMatrix is flat []float64 of length n*n in row-major order, symmetric
// with an unused diagonal; it is only read. Requires n >= 2.
func Run(distMatrix []float64, n int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("hdbscanstar: need at least 2 points, got %d: %w", n, ErrInvalidParameter)
	}
	if len(distMatrix) != n*n {
		return nil, fmt.Errorf("hdbscanstar: distMatrix length %d does not match n*n = %d (n=%d): %w",
			len(distMatrix), n*n, n, ErrInvalidParameter)
	}
	for _, c := range cfg.Constraints {
		if c.PointA < 0 || c.PointA >= n || c.PointB < 0 || c.PointB >= n {
			return nil, fmt.Errorf("hdbscanstar: constraint endpoint (%d, %d) out of range [0, %d): %w",
				c.PointA, c.PointB, n, ErrInvalidParameter)
		}
	}

	coreDistances := CoreDistancesParallel(distMatrix, n, cfg.K, cfg.Workers)
	mst := ConstructMST(distMatrix, coreDistances, n, cfg.SelfEdges)

	h, err := ComputeHierarchy(mst, cfg.MinClusterSize, cfg.Constraints)
	if err != nil {
		return nil, err
	}

	infiniteStability, err := h.Tree.Propagate()
	if err != nil {
		return nil, err
	}

	labels, err := h.ProminentClusters()
	if err != nil {
		return nil, err
	}

	outlierScores, err := h.Tree.CalculateOutlierScores(h.PointNoiseLevels, h.PointLastClusters, coreDistances)
	if err != nil {
		return nil, err
	}

	probabilities := make([]float64, n)
	for i := 0; i < n; i++ {
		if labels[i] == 0 {
			continue
		}
		epsilon := h.PointNoiseLevels[i]
		if epsilon == 0 {
			probabilities[i] = 1
			continue
		}
		p := h.Tree.Cluster(h.PointLastClusters[i]).PropagatedLowestChildDeathLevel / epsilon
		probabilities[i] = min(p, 1)
	}

	return &Result{
		Labels:            labels,
		Probabilities:     probabilities,
		OutlierScores:     outlierScores,
		CoreDistances:     coreDistances,
		Tree:              h.Tree,
		InfiniteStability: infiniteStability,
	}, nil
}

// ClusterPoints builds the distance matrix from raw feature vectors with
// the given metric, then clusters via Run. All points must share one
// dimensionality. A nil metric defaults to Euclidean.
func ClusterPoints(data [][]float64, metric DistanceMetric, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("hdbscanstar: need at least 2 points, got %d: %w", n, ErrInvalidParameter)
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}

	dims := len(data[0])
	for i, row := range data {
		if len(row) != dims {
			return nil, fmt.Errorf("hdbscanstar: point %d has %d dimensions, want %d: %w",
				i, len(row), dims, ErrInvalidParameter)
		}
	}

	flat := make([]float64, n*dims)
	for i, row := range data {
		copy(flat[i*dims:], row)
	}

	distMatrix := PairwiseDistancesParallel(flat, n, dims, metric, cfg.Workers)
	return Run(distMatrix, n, cfg)
}
