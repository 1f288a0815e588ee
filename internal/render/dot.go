package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/wikigraph/internal/core/community"
	"github.com/agenthands/wikigraph/internal/core/model"
)

const (
	SeedColor       = "blue"
	DiscoveredColor = "green"
)

// DOTOptions controls the generated Graphviz source.
type DOTOptions struct {
	WikiRoot string
	RankDir  string
	// Detector, when set, groups nodes into cluster subgraphs.
	Detector community.Detector
}

type dotNode struct {
	id    model.EntityID
	label string
	color string
}

// WriteDOT writes g as a Graphviz digraph. Seeds are drawn in SeedColor and
// discovered nodes in DiscoveredColor; a discovered node that is also a
// seed is drawn once, as a seed. Every node and edge links back to Wikidata.
func WriteDOT(w io.Writer, g *model.Graph, opts DOTOptions) error {
	bw := bufio.NewWriter(w)

	nodes := collectNodes(g)

	fmt.Fprintln(bw, "digraph wikigraph {")
	if opts.RankDir != "" {
		fmt.Fprintf(bw, "    rankdir=%s;\n", opts.RankDir)
	}

	clustered := make(map[model.EntityID]int)
	var clusters [][]model.EntityID
	if opts.Detector != nil {
		ids := make([]model.EntityID, len(nodes))
		for i, n := range nodes {
			ids[i] = n.id
		}
		clusters = opts.Detector.Detect(ids, g.Edges)
		for i, c := range clusters {
			for _, id := range c {
				clustered[id] = i
			}
		}
	}

	for _, n := range nodes {
		if _, ok := clustered[n.id]; ok {
			continue
		}
		writeNode(bw, "    ", n, opts.WikiRoot)
	}

	for i := range clusters {
		fmt.Fprintf(bw, "    subgraph cluster_%d {\n", i)
		fmt.Fprintln(bw, "        style=dashed;")
		for _, n := range nodes {
			if c, ok := clustered[n.id]; ok && c == i {
				writeNode(bw, "        ", n, opts.WikiRoot)
			}
		}
		fmt.Fprintln(bw, "    }")
	}

	for _, e := range g.Edges {
		fmt.Fprintf(bw, "    %s -> %s [label=%s, href=%s];\n",
			quote(nodeName(e.Source)),
			quote(nodeName(e.Target)),
			quote(e.Relation.Code()),
			quote(e.Relation.URL(opts.WikiRoot)),
		)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func collectNodes(g *model.Graph) []dotNode {
	seen := make(map[model.EntityID]bool, len(g.Seeds)+len(g.Nodes))
	nodes := make([]dotNode, 0, len(g.Seeds)+len(g.Nodes))
	for _, s := range g.Seeds {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		nodes = append(nodes, dotNode{id: s.ID, label: s.Label, color: SeedColor})
	}
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		nodes = append(nodes, dotNode{id: n.ID, label: n.Label, color: DiscoveredColor})
	}
	return nodes
}

func writeNode(w io.Writer, indent string, n dotNode, root string) {
	label := n.label
	if label == "" {
		label = n.id.String()
	}
	fmt.Fprintf(w, "%s%s [label=%s, color=%s, href=%s];\n",
		indent,
		quote(nodeName(n.id)),
		quote(label),
		quote(n.color),
		quote(model.WikiURL(root, n.id)),
	)
}

func nodeName(id model.EntityID) string {
	return fmt.Sprintf("%d", uint64(id))
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
