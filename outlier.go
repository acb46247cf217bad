package hdbscanstar

import (
	"fmt"
	"sort"
)

// OutlierScore is one point's outlier record: how early the point fell to
// noise relative to the lifespan of the last cluster it belonged to.
type OutlierScore struct {
	Score        float64
	CoreDistance float64
	ID           int
}

// CalculateOutlierScores scores every point:
// 1 - lowestChildDeathLevel/noiseLevel for a non-zero noise level, else 0.
// pointNoiseLevels[i] is the edge weight at which point i became noise and
// pointLastClusters[i] the label it held just before. The result holds one
// record per point, sorted by descending score; ties break by descending
// core distance, then ascending ID. The tree must already be propagated.
func (t *ClusterTree) CalculateOutlierScores(pointNoiseLevels []float64, pointLastClusters []int, coreDistances []float64) ([]OutlierScore, error) {
	if !t.propagated {
		return nil, fmt.Errorf("hdbscanstar: outlier scores requested before propagation: %w", ErrInconsistentState)
	}
	numPoints := len(pointNoiseLevels)
	if len(pointLastClusters) != numPoints || len(coreDistances) != numPoints {
		return nil, fmt.Errorf("hdbscanstar: mismatched array lengths %d/%d/%d: %w",
			numPoints, len(pointLastClusters), len(coreDistances), ErrInvalidParameter)
	}

	scores := make([]OutlierScore, numPoints)
	for i := 0; i < numPoints; i++ {
		epsilon := pointNoiseLevels[i]
		score := 0.0
		if epsilon != 0 {
			epsilonMax := t.clusters[pointLastClusters[i]].PropagatedLowestChildDeathLevel
			score = 1 - epsilonMax/epsilon
		}
		scores[i] = OutlierScore{Score: score, CoreDistance: coreDistances[i], ID: i}
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.CoreDistance != b.CoreDistance {
			return a.CoreDistance > b.CoreDistance
		}
		return a.ID < b.ID
	})

	return scores, nil
}
