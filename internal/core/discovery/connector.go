package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/logging"
)

// ErrNoSeeds is returned when Connect is called without entities.
var ErrNoSeeds = errors.New("at least one entity is required")

// Connector runs the whole discovery pipeline for a set of seeds.
type Connector struct {
	Finder          *Finder
	Workers         int
	ContinueOnError bool
	StrictLabels    bool
	Logger          *zap.Logger

	// NewRunID is swapped in tests for predictable ids.
	NewRunID func() string
}

func NewConnector(finder *Finder, cfg *config.Config, logger *zap.Logger) *Connector {
	return &Connector{
		Finder:          finder,
		Workers:         cfg.Concurrency.Workers,
		ContinueOnError: cfg.Concurrency.ContinueOnError,
		StrictLabels:    cfg.Labels.Strict,
		Logger:          logging.OrNop(logger),
		NewRunID:        func() string { return uuid.New().String() },
	}
}

type pairResult struct {
	inc model.Increment
	err error
}

// Connect discovers direct and bridged links between every ordered pair of
// ids and resolves the seed labels. Pairs are processed concurrently, but
// their increments are merged in pair order so the result does not depend
// on scheduling.
func (c *Connector) Connect(ctx context.Context, ids []model.EntityID) (*model.Graph, error) {
	if len(ids) == 0 {
		return nil, ErrNoSeeds
	}

	runID := c.NewRunID()
	log := c.Logger.With(zap.String("run_id", runID))

	seeds := model.UniqueEntities(ids)
	pairs := slices.Collect(Pairs(seeds))
	log.Info("connecting entities", zap.Int("seeds", len(seeds)), zap.Int("pairs", len(pairs)))

	results, err := c.runPairs(ctx, pairs)
	if err != nil {
		return nil, err
	}

	agg := NewAggregator()
	graph := &model.Graph{RunID: runID}
	var failures *multierror.Error
	for i, r := range results {
		if r.err != nil {
			failures = multierror.Append(failures, r.err)
			graph.SkippedPairs = append(graph.SkippedPairs, model.SkippedPair{Pair: pairs[i], Error: r.err.Error()})
			log.Warn("skipping pair", zap.Stringer("source", pairs[i].Source), zap.Stringer("target", pairs[i].Target), zap.Error(r.err))
			continue
		}
		agg.Add(r.inc)
	}
	if len(pairs) > 0 && len(graph.SkippedPairs) == len(pairs) {
		return nil, fmt.Errorf("every pair failed: %w", failures.ErrorOrNil())
	}

	for _, id := range seeds {
		label, err := c.Finder.Label(ctx, id)
		if err != nil {
			if c.StrictLabels || !errors.Is(err, ErrNoLabel) {
				return nil, err
			}
			log.Warn("seed has no English label", zap.Stringer("entity", id))
		}
		graph.Seeds = append(graph.Seeds, model.SeedNode{ID: id, Label: label})

		if n, ok := agg.Node(id); ok && n.Label != label {
			graph.LabelConflicts = append(graph.LabelConflicts, model.LabelConflict{
				ID:          id,
				SeedLabel:   label,
				InlineLabel: n.Label,
			})
			log.Warn("seed and inline labels disagree",
				zap.Stringer("entity", id),
				zap.String("seed_label", label),
				zap.String("inline_label", n.Label),
			)
		}
	}

	graph.Nodes = agg.Nodes()
	graph.Edges = agg.Edges()

	log.Info("connection graph assembled",
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
		zap.Int("skipped_pairs", len(graph.SkippedPairs)),
	)
	return graph, nil
}

func (c *Connector) runPairs(ctx context.Context, pairs []model.Pair) ([]pairResult, error) {
	results := make([]pairResult, len(pairs))

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		g.Go(func() error {
			inc, err := c.Finder.Pair(gctx, p)
			c.Finder.Metrics.ObservePair(err)
			results[i] = pairResult{inc: inc, err: err}
			if err != nil && !c.ContinueOnError {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SkippedError summarizes the skipped pairs of g as one error, or nil.
func SkippedError(g *model.Graph) error {
	var errs *multierror.Error
	for _, s := range g.SkippedPairs {
		errs = multierror.Append(errs, fmt.Errorf("%s -> %s: %s", s.Pair.Source, s.Pair.Target, s.Error))
	}
	return errs.ErrorOrNil()
}
