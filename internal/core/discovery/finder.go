package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/logging"
	"github.com/agenthands/wikigraph/internal/metrics"
	"github.com/agenthands/wikigraph/internal/sparql"
)

// ErrNoLabel is returned by Label when the entity has no English label.
var ErrNoLabel = errors.New("entity has no English label")

// Finder runs the per-pair link queries and the seed label lookup.
// Each call returns what it found instead of writing into shared state.
type Finder struct {
	Querier sparql.Querier
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

func NewFinder(q sparql.Querier, m *metrics.Collector, logger *zap.Logger) *Finder {
	return &Finder{
		Querier: q,
		Metrics: m,
		Logger:  logging.OrNop(logger),
	}
}

func (f *Finder) query(ctx context.Context, kind, q string) ([]sparql.Binding, error) {
	start := time.Now()
	resp, err := f.Querier.Query(ctx, q)
	rows := resp.Rows()
	f.Metrics.ObserveQuery(kind, time.Since(start), len(rows), err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Direct finds every predicate linking p.Source straight to p.Target.
func (f *Finder) Direct(ctx context.Context, p model.Pair) (model.Increment, error) {
	rows, err := f.query(ctx, metrics.KindDirect, sparql.DirectLinkQuery(p.Source, p.Target))
	if err != nil {
		return model.Increment{}, fmt.Errorf("direct links %s -> %s: %w", p.Source, p.Target, err)
	}

	var inc model.Increment
	for _, row := range rows {
		a, err := row.Value("a")
		if err != nil {
			return model.Increment{}, fmt.Errorf("direct links %s -> %s: %w", p.Source, p.Target, err)
		}
		rel, err := sparql.ParseRelationRef(a)
		if err != nil {
			return model.Increment{}, fmt.Errorf("direct links %s -> %s: %w", p.Source, p.Target, err)
		}
		inc.Edges = append(inc.Edges, model.Edge{Source: p.Source, Target: p.Target, Relation: rel})
	}

	f.Logger.Debug("direct links",
		zap.Stringer("source", p.Source),
		zap.Stringer("target", p.Target),
		zap.Int("edges", len(inc.Edges)),
	)
	return inc, nil
}

// Bridged finds items b with p.Source -> b -> p.Target. The label of b comes
// from the label service in the same query.
func (f *Finder) Bridged(ctx context.Context, p model.Pair) (model.Increment, error) {
	rows, err := f.query(ctx, metrics.KindBridged, sparql.BridgedLinkQuery(p.Source, p.Target))
	if err != nil {
		return model.Increment{}, fmt.Errorf("bridged links %s -> %s: %w", p.Source, p.Target, err)
	}

	var inc model.Increment
	for _, row := range rows {
		node, in, out, err := parseBridgeRow(row, p)
		if err != nil {
			return model.Increment{}, fmt.Errorf("bridged links %s -> %s: %w", p.Source, p.Target, err)
		}
		inc.Nodes = append(inc.Nodes, node)
		inc.Edges = append(inc.Edges, in, out)
	}

	f.Logger.Debug("bridged links",
		zap.Stringer("source", p.Source),
		zap.Stringer("target", p.Target),
		zap.Int("rows", len(rows)),
	)
	return inc, nil
}

func parseBridgeRow(row sparql.Binding, p model.Pair) (model.Node, model.Edge, model.Edge, error) {
	var (
		node    model.Node
		in, out model.Edge
	)

	bRef, err := row.Value("b")
	if err != nil {
		return node, in, out, err
	}
	id, err := sparql.ParseEntityRef(bRef)
	if err != nil {
		return node, in, out, err
	}
	label, err := row.Value("bLabel")
	if err != nil {
		return node, in, out, err
	}
	aRef, err := row.Value("a")
	if err != nil {
		return node, in, out, err
	}
	a, err := sparql.ParseRelationRef(aRef)
	if err != nil {
		return node, in, out, err
	}
	cRef, err := row.Value("c")
	if err != nil {
		return node, in, out, err
	}
	c, err := sparql.ParseRelationRef(cRef)
	if err != nil {
		return node, in, out, err
	}

	node = model.Node{ID: id, Label: label}
	in = model.Edge{Source: p.Source, Target: id, Relation: a}
	out = model.Edge{Source: id, Target: p.Target, Relation: c}
	return node, in, out, nil
}

// Pair runs both finders for p and returns their combined increment.
func (f *Finder) Pair(ctx context.Context, p model.Pair) (model.Increment, error) {
	direct, err := f.Direct(ctx, p)
	if err != nil {
		return model.Increment{}, err
	}
	bridged, err := f.Bridged(ctx, p)
	if err != nil {
		return model.Increment{}, err
	}
	return direct.Merge(bridged), nil
}

// Label returns the English rdfs:label of id, taking the first row.
func (f *Finder) Label(ctx context.Context, id model.EntityID) (string, error) {
	rows, err := f.query(ctx, metrics.KindLabel, sparql.LabelQuery(id))
	if err != nil {
		return "", fmt.Errorf("label of %s: %w", id, err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("label of %s: %w", id, ErrNoLabel)
	}
	label, err := rows[0].Value("label")
	if err != nil {
		return "", fmt.Errorf("label of %s: %w", id, err)
	}
	return label, nil
}
