package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/core/common"
	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/llm"
	"github.com/agenthands/wikigraph/internal/logging"
)

// DefaultConnectionsPrompt takes the seed list and the fact list.
const DefaultConnectionsPrompt = `The following Wikidata entities were given: %s.
Here is every relation found between them, one per line, as "subject -[property]-> object":
%s
Explain in a short paragraph how the given entities are connected.
Respond with JSON: {"summary": "..."}`

// ChunkSize bounds the number of facts sent in one prompt.
const ChunkSize = 50

type connectionSummary struct {
	Summary string `json:"summary"`
}

// Narrator explains a discovered graph in prose.
type Narrator struct {
	LLM     llm.LLMClient
	Prompts config.SummaryPrompts
	Logger  *zap.Logger
}

func NewNarrator(llmClient llm.LLMClient, prompts config.SummaryPrompts, logger *zap.Logger) *Narrator {
	if prompts.Connections == "" {
		prompts.Connections = DefaultConnectionsPrompt
	}
	return &Narrator{
		LLM:     llmClient,
		Prompts: prompts,
		Logger:  logging.OrNop(logger),
	}
}

// Facts renders every edge of g as "<label> -[P31]-> <label>".
func Facts(g *model.Graph) []string {
	facts := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		facts = append(facts, fmt.Sprintf("%s -[%s]-> %s", displayName(g, e.Source), e.Relation.Code(), displayName(g, e.Target)))
	}
	return facts
}

func displayName(g *model.Graph, id model.EntityID) string {
	if label, ok := g.Label(id); ok && label != "" {
		return fmt.Sprintf("%s (%s)", label, id)
	}
	return id.String()
}

func (n *Narrator) Narrate(ctx context.Context, g *model.Graph) (string, error) {
	seeds := make([]string, 0, len(g.Seeds))
	for _, s := range g.Seeds {
		seeds = append(seeds, displayName(g, s.ID))
	}
	facts := Facts(g)
	if len(facts) == 0 {
		return "No connections were found between the given entities.", nil
	}
	return n.narrate(ctx, strings.Join(seeds, ", "), facts)
}

func (n *Narrator) narrate(ctx context.Context, seeds string, facts []string) (string, error) {
	if len(facts) <= ChunkSize {
		return n.generate(ctx, seeds, facts)
	}

	// Too many facts for one prompt: summarize chunks, then summarize the summaries.
	var partial []string
	for i := 0; i < len(facts); i += ChunkSize {
		end := min(i+ChunkSize, len(facts))
		s, err := n.generate(ctx, seeds, facts[i:end])
		if err != nil {
			n.Logger.Warn("chunk narration failed", zap.Int("offset", i), zap.Error(err))
			continue
		}
		partial = append(partial, fmt.Sprintf("Part %d: %s", len(partial)+1, s))
	}
	if len(partial) == 0 {
		return "", fmt.Errorf("failed to narrate any of %d facts", len(facts))
	}
	return n.narrate(ctx, seeds, partial)
}

func (n *Narrator) generate(ctx context.Context, seeds string, facts []string) (string, error) {
	prompt := fmt.Sprintf(n.Prompts.Connections, seeds, strings.Join(facts, "\n"))

	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	result, err := common.ParseJSON[connectionSummary](response)
	if err == nil && result.Summary != "" {
		return result.Summary, nil
	}
	return strings.TrimSpace(response), nil
}
