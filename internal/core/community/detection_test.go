package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/wikigraph/internal/core/model"
)

func TestComponents(t *testing.T) {
	ids := []model.EntityID{1, 2, 3, 4}
	edges := []model.Edge{
		edge(1, 2),
		edge(2, 3),
		// 4 is isolated
		edge(4, 99), // unknown endpoint is ignored
	}

	communities := (&ComponentDetector{}).Detect(ids, edges)

	assert.Equal(t, [][]model.EntityID{{1, 2, 3}}, communities)
}

func TestComponents_Multiple(t *testing.T) {
	ids := []model.EntityID{4, 3, 2, 1}
	edges := []model.Edge{edge(1, 2), edge(3, 4)}

	communities := (&ComponentDetector{}).Detect(ids, edges)

	assert.Equal(t, [][]model.EntityID{{1, 2}, {3, 4}}, communities)
}

func TestNewDetector(t *testing.T) {
	d, err := NewDetector("")
	require.NoError(t, err)
	assert.IsType(t, &LabelPropagationDetector{}, d)

	d, err = NewDetector("components")
	require.NoError(t, err)
	assert.IsType(t, &ComponentDetector{}, d)

	_, err = NewDetector("louvain")
	assert.Error(t, err)
}
