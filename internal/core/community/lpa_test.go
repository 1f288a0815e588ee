package community

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/wikigraph/internal/core/model"
)

func edge(a, b model.EntityID) model.Edge {
	return model.Edge{Source: a, Target: b, Relation: "http://www.wikidata.org/prop/direct/P31"}
}

func TestLPA_DisconnectedComponents(t *testing.T) {
	// [1-2-3-1] and [4-5-6-4], completely disconnected
	ids := []model.EntityID{1, 2, 3, 4, 5, 6}
	edges := []model.Edge{
		edge(1, 2), edge(2, 3), edge(3, 1),
		edge(4, 5), edge(5, 6), edge(6, 4),
	}

	communities := NewLabelPropagationDetector().Detect(ids, edges)

	assert.Equal(t, [][]model.EntityID{{1, 2, 3}, {4, 5, 6}}, communities)
}

func TestLPA_BridgeNode(t *testing.T) {
	// Two triangles joined by 3-4. Intra-triangle ties outweigh the bridge.
	ids := []model.EntityID{1, 2, 3, 4, 5, 6}
	edges := []model.Edge{
		edge(1, 2), edge(2, 3), edge(3, 1),
		edge(3, 4),
		edge(4, 5), edge(5, 6), edge(6, 4),
	}

	communities := NewLabelPropagationDetector().Detect(ids, edges)

	assert.Equal(t, [][]model.EntityID{{1, 2, 3}, {4, 5, 6}}, communities)
}

func TestLPA_LargeClique(t *testing.T) {
	ids := []model.EntityID{1, 2, 3, 4, 5}
	var edges []model.Edge
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			edges = append(edges, edge(ids[i], ids[j]))
		}
	}

	communities := NewLabelPropagationDetector().Detect(ids, edges)

	assert.Len(t, communities, 1)
	assert.Len(t, communities[0], 5)
}

func TestLPA_Empty(t *testing.T) {
	assert.Nil(t, NewLabelPropagationDetector().Detect(nil, nil))
}
