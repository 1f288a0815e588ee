package discovery

import (
	"iter"

	"github.com/agenthands/wikigraph/internal/core/model"
)

// Pairs yields every ordered pair of ids drawn from two different
// positions, in permutation order. Pairs whose two values are equal are
// skipped, so N distinct ids give N*(N-1) pairs.
func Pairs(ids []model.EntityID) iter.Seq[model.Pair] {
	return func(yield func(model.Pair) bool) {
		for i, x := range ids {
			for j, y := range ids {
				if i == j || x == y {
					continue
				}
				if !yield(model.Pair{Source: x, Target: y}) {
					return
				}
			}
		}
	}
}
