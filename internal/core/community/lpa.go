package community

import (
	"github.com/agenthands/wikigraph/internal/core/model"
)

// LabelPropagationDetector implements community detection using Label Propagation Algorithm (LPA).
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(ids []model.EntityID, edges []model.Edge) [][]model.EntityID {
	if len(ids) == 0 {
		return nil
	}

	// Edge direction is irrelevant for grouping; parallel relations between
	// the same two entities count as a stronger tie.
	adj := undirected(ids, edges)

	// Each node starts in its own community.
	labels := make(map[model.EntityID]model.EntityID, len(ids))
	for _, id := range ids {
		labels[id] = id
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range ids {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[model.EntityID]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			// Ties go to the largest label so runs are reproducible.
			var best model.EntityID
			found := false
			for label, count := range labelCounts {
				if count == maxCount && (!found || label > best) {
					best = label
					found = true
				}
			}

			if labels[u] != best {
				labels[u] = best
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[model.EntityID][]model.EntityID)
	for _, id := range ids {
		clusters[labels[id]] = append(clusters[labels[id]], id)
	}

	var communities [][]model.EntityID
	for _, cluster := range clusters {
		if len(cluster) >= 2 {
			communities = append(communities, cluster)
		}
	}

	return normalize(communities)
}
