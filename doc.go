// Package hdbscanstar implements the HDBSCAN* clustering engine over a
// precomputed pairwise distance matrix.
//
// The pipeline: core distances (distance to the k-th nearest neighbor), a
// minimum spanning tree under the mutual reachability metric, a cluster tree
// built as MST edges are removed in decreasing weight order, a single
// bottom-up propagation pass, and a per-point outlier ranking. Optional
// must-link and cannot-link constraints are tallied on the tree during
// splitting.
//
// Basic usage:
//
//	cfg := hdbscanstar.DefaultConfig()
//	cfg.MinClusterSize = 10
//	result, err := hdbscanstar.Run(distMatrix, n, cfg)
//	// result.Labels[i] is the cluster label for point i (0 = noise)
//	// result.OutlierScores is sorted by descending outlier score
//
// For raw feature vectors:
//
//	result, err := hdbscanstar.ClusterPoints(data, hdbscanstar.EuclideanMetric{}, cfg)
//
// The individual stages (CoreDistances, ConstructMST, ComputeHierarchy,
// ClusterTree.Propagate, ClusterTree.CalculateOutlierScores) are exported for
// callers that drive the hierarchy themselves or feed the propagated tree
// into a custom cluster-selection stage.
package hdbscanstar
