package model

// Pair is one ordered (source, target) combination of seeds.
type Pair struct {
	Source EntityID `json:"source"`
	Target EntityID `json:"target"`
}

// Increment is what a single finder call discovered for one pair.
type Increment struct {
	Nodes []Node
	Edges []Edge
}

func (i Increment) Empty() bool {
	return len(i.Nodes) == 0 && len(i.Edges) == 0
}

// Merge appends other to i and returns the result.
func (i Increment) Merge(other Increment) Increment {
	i.Nodes = append(i.Nodes, other.Nodes...)
	i.Edges = append(i.Edges, other.Edges...)
	return i
}

// LabelConflict records an entity that received one label as a seed
// (English rdfs:label) and another as an intermediate (label service).
type LabelConflict struct {
	ID          EntityID `json:"id"`
	SeedLabel   string   `json:"seed_label"`
	InlineLabel string   `json:"inline_label"`
}

// SkippedPair is a pair whose queries failed when the run continued past errors.
type SkippedPair struct {
	Pair  Pair   `json:"pair"`
	Error string `json:"error"`
}

// Graph is the assembled result of a run. Slices are in first-discovery order.
type Graph struct {
	RunID          string          `json:"run_id"`
	Seeds          []SeedNode      `json:"seeds"`
	Nodes          []Node          `json:"nodes"`
	Edges          []Edge          `json:"edges"`
	LabelConflicts []LabelConflict `json:"label_conflicts,omitempty"`
	SkippedPairs   []SkippedPair   `json:"skipped_pairs,omitempty"`
}

// IsSeed reports whether id was supplied by the caller.
func (g *Graph) IsSeed(id EntityID) bool {
	for _, s := range g.Seeds {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Label returns the display label for id, preferring the seed label.
func (g *Graph) Label(id EntityID) (string, bool) {
	for _, s := range g.Seeds {
		if s.ID == id {
			return s.Label, true
		}
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n.Label, true
		}
	}
	return "", false
}
