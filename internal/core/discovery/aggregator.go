package discovery

import (
	"slices"

	"github.com/agenthands/wikigraph/internal/core/model"
)

// Aggregator folds increments into deduplicated node and edge sets,
// keeping first-seen order. It is not safe for concurrent use; the
// Connector merges from a single goroutine.
type Aggregator struct {
	nodes     []model.Node
	nodeIndex map[model.EntityID]struct{}
	edges     []model.Edge
	edgeIndex map[model.Edge]struct{}
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		nodeIndex: make(map[model.EntityID]struct{}),
		edgeIndex: make(map[model.Edge]struct{}),
	}
}

// Add merges inc and reports how many nodes and edges were new.
func (a *Aggregator) Add(inc model.Increment) (newNodes, newEdges int) {
	for _, n := range inc.Nodes {
		if _, ok := a.nodeIndex[n.ID]; ok {
			continue
		}
		a.nodeIndex[n.ID] = struct{}{}
		a.nodes = append(a.nodes, n)
		newNodes++
	}
	for _, e := range inc.Edges {
		if _, ok := a.edgeIndex[e]; ok {
			continue
		}
		a.edgeIndex[e] = struct{}{}
		a.edges = append(a.edges, e)
		newEdges++
	}
	return newNodes, newEdges
}

func (a *Aggregator) Nodes() []model.Node {
	return slices.Clone(a.nodes)
}

func (a *Aggregator) Edges() []model.Edge {
	return slices.Clone(a.edges)
}

// Node looks up a discovered node by id.
func (a *Aggregator) Node(id model.EntityID) (model.Node, bool) {
	if _, ok := a.nodeIndex[id]; !ok {
		return model.Node{}, false
	}
	for _, n := range a.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}
