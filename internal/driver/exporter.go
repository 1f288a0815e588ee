package driver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/logging"
)

// Exporter writes an assembled graph into Memgraph. Entities are merged on
// their Q-id, so repeated runs over overlapping seeds share nodes; every
// node and relation is stamped with the run that last touched it.
type Exporter struct {
	Driver   GraphDriver
	WikiRoot string
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewExporter(d GraphDriver, wikiRoot string, logger *zap.Logger) *Exporter {
	return &Exporter{
		Driver:   d,
		WikiRoot: wikiRoot,
		Logger:   logging.OrNop(logger),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *Exporter) Export(ctx context.Context, g *model.Graph) error {
	now := e.Now()

	entities := make([]map[string]interface{}, 0, len(g.Seeds)+len(g.Nodes))
	for _, s := range g.Seeds {
		entities = append(entities, e.entity(s.ID, s.Label, true))
	}
	for _, n := range g.Nodes {
		if g.IsSeed(n.ID) {
			continue
		}
		entities = append(entities, e.entity(n.ID, n.Label, false))
	}

	_, err := e.Driver.ExecuteQuery(ctx, SaveEntitiesQuery, map[string]interface{}{
		"entities":    entities,
		"run_id":      g.RunID,
		"exported_at": now,
	})
	if err != nil {
		return fmt.Errorf("failed to save entities: %w", err)
	}

	if len(g.Edges) > 0 {
		relations := make([]map[string]interface{}, 0, len(g.Edges))
		for _, edge := range g.Edges {
			relations = append(relations, map[string]interface{}{
				"source":   edge.Source.String(),
				"target":   edge.Target.String(),
				"relation": string(edge.Relation),
				"code":     edge.Relation.Code(),
				"url":      edge.Relation.URL(e.WikiRoot),
			})
		}

		_, err = e.Driver.ExecuteQuery(ctx, SaveRelationsQuery, map[string]interface{}{
			"relations":   relations,
			"run_id":      g.RunID,
			"exported_at": now,
		})
		if err != nil {
			return fmt.Errorf("failed to save relations: %w", err)
		}
	}

	e.Logger.Info("graph exported",
		zap.String("run_id", g.RunID),
		zap.Int("entities", len(entities)),
		zap.Int("relations", len(g.Edges)),
	)
	return nil
}

func (e *Exporter) entity(id model.EntityID, label string, seed bool) map[string]interface{} {
	return map[string]interface{}{
		"qid":   id.String(),
		"label": label,
		"url":   model.WikiURL(e.WikiRoot, id),
		"seed":  seed,
	}
}

// RunRelations reads back the relations stamped with runID.
func (e *Exporter) RunRelations(ctx context.Context, runID string) ([]model.Edge, error) {
	res, err := e.Driver.ExecuteQuery(ctx, GetRunRelationsQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, err
	}

	var edges []model.Edge
	for _, rec := range res.Records {
		src, _ := rec.Get("source")
		dst, _ := rec.Get("target")
		rel, _ := rec.Get("relation")

		source, err := parseQID(src)
		if err != nil {
			return nil, err
		}
		target, err := parseQID(dst)
		if err != nil {
			return nil, err
		}
		relation, ok := rel.(string)
		if !ok {
			return nil, fmt.Errorf("relation is %T, want string", rel)
		}
		edges = append(edges, model.Edge{Source: source, Target: target, Relation: model.Relation(relation)})
	}
	return edges, nil
}

func parseQID(v interface{}) (model.EntityID, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("qid is %T, want string", v)
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "Q"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid qid %q: %w", s, err)
	}
	return model.EntityID(n), nil
}
