package discovery

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/wikigraph/internal/core/model"
)

func TestPairs_AllPermutations(t *testing.T) {
	for n := 0; n <= 6; n++ {
		ids := make([]model.EntityID, n)
		for i := range ids {
			ids[i] = model.EntityID(i + 1)
		}

		pairs := slices.Collect(Pairs(ids))
		assert.Len(t, pairs, n*(n-1))

		seen := make(map[model.Pair]bool)
		for _, p := range pairs {
			assert.NotEqual(t, p.Source, p.Target)
			assert.False(t, seen[p], "duplicate pair %v", p)
			seen[p] = true
		}
		for _, a := range ids {
			for _, b := range ids {
				if a != b {
					assert.True(t, seen[model.Pair{Source: a, Target: b}])
				}
			}
		}
	}
}

func TestPairs_Order(t *testing.T) {
	pairs := slices.Collect(Pairs([]model.EntityID{1, 2, 3}))
	assert.Equal(t, []model.Pair{
		{Source: 1, Target: 2}, {Source: 1, Target: 3},
		{Source: 2, Target: 1}, {Source: 2, Target: 3},
		{Source: 3, Target: 1}, {Source: 3, Target: 2},
	}, pairs)
}

func TestPairs_SingleAndDuplicates(t *testing.T) {
	assert.Empty(t, slices.Collect(Pairs([]model.EntityID{42})))
	assert.Empty(t, slices.Collect(Pairs([]model.EntityID{42, 42})))
	assert.Equal(t,
		[]model.Pair{{Source: 1, Target: 2}, {Source: 1, Target: 2}, {Source: 2, Target: 1}, {Source: 2, Target: 1}},
		slices.Collect(Pairs([]model.EntityID{1, 1, 2})),
	)
}

func TestPairs_StopsEarly(t *testing.T) {
	count := 0
	for range Pairs([]model.EntityID{1, 2, 3, 4}) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
