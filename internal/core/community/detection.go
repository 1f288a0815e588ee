package community

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/agenthands/wikigraph/internal/core/model"
)

// Detector groups entities into communities. Singletons are dropped and
// each community is sorted by id; communities are ordered by their
// smallest member.
type Detector interface {
	Detect(ids []model.EntityID, edges []model.Edge) [][]model.EntityID
}

// NewDetector returns the detector registered under method.
func NewDetector(method string) (Detector, error) {
	switch method {
	case "", "lpa":
		return NewLabelPropagationDetector(), nil
	case "components":
		return &ComponentDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown cluster method: %s", method)
	}
}

// ComponentDetector treats every weakly connected component as a community.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(ids []model.EntityID, edges []model.Edge) [][]model.EntityID {
	adj := undirected(ids, edges)

	visited := make(map[model.EntityID]bool)
	var communities [][]model.EntityID
	for _, id := range ids {
		if visited[id] {
			continue
		}
		var component []model.EntityID
		d.dfs(id, adj, visited, &component)
		if len(component) >= 2 {
			communities = append(communities, component)
		}
	}
	return normalize(communities)
}

func (d *ComponentDetector) dfs(u model.EntityID, adj map[model.EntityID]map[model.EntityID]int, visited map[model.EntityID]bool, component *[]model.EntityID) {
	visited[u] = true
	*component = append(*component, u)
	for v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// undirected builds a weighted adjacency map; parallel edges add weight and
// edges touching unknown ids are ignored.
func undirected(ids []model.EntityID, edges []model.Edge) map[model.EntityID]map[model.EntityID]int {
	adj := make(map[model.EntityID]map[model.EntityID]int, len(ids))
	for _, id := range ids {
		adj[id] = make(map[model.EntityID]int)
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := adj[e.Source]; !ok {
			continue
		}
		if _, ok := adj[e.Target]; !ok {
			continue
		}
		adj[e.Source][e.Target]++
		adj[e.Target][e.Source]++
	}
	return adj
}

func normalize(communities [][]model.EntityID) [][]model.EntityID {
	for _, c := range communities {
		slices.Sort(c)
	}
	slices.SortFunc(communities, func(a, b []model.EntityID) int {
		return cmp.Compare(a[0], b[0])
	})
	return communities
}
