package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/core/discovery"
	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/core/summary"
	"github.com/agenthands/wikigraph/internal/driver"
	"github.com/agenthands/wikigraph/internal/llm"
	"github.com/agenthands/wikigraph/internal/logging"
	"github.com/agenthands/wikigraph/internal/metrics"
	"github.com/agenthands/wikigraph/internal/render"
	"github.com/agenthands/wikigraph/internal/sparql"
)

const defaultConfigPath = "config/config.toml"

type options struct {
	configPath      string
	verbose         bool
	nodes           []int
	output          string
	format          string
	workers         int
	continueOnError bool
	clusters        bool
	export          bool
	narrate         bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "wikigraph -n <id> [<id>...] -o <output>",
		Short: "Discover how Wikidata entities are connected and draw the graph",
		Long: `wikigraph looks for every direct link and every one-hop bridge between
each ordered pair of the given Wikidata items and renders the result with
Graphviz. Entities are given by their numeric Q-id: -n 42 350, -n 42,350
and -n 42 -n 350 are equivalent.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to the TOML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.Flags().IntSliceVarP(&opts.nodes, "nodes", "n", nil, "Numeric Q-ids of the entities to connect (e.g. 42 for Q42)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path of the DOT file; rendered output goes next to it")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: dot, pdf, svg, png, jpg or json")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of pairs queried concurrently")
	cmd.Flags().BoolVar(&opts.continueOnError, "continue-on-error", false, "Skip pairs whose queries fail instead of aborting")
	cmd.Flags().BoolVar(&opts.clusters, "clusters", false, "Group densely connected nodes into clusters")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Also write the graph to Memgraph")
	cmd.Flags().BoolVar(&opts.narrate, "narrate", false, "Ask the configured LLM to explain the connections")
	cmd.MarkFlagRequired("nodes")
	cmd.MarkFlagRequired("output")

	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// loadConfig layers the config file, the environment and the flags that
// were set explicitly, in that order.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Render.Format = opts.format
	}
	if flags.Changed("workers") {
		cfg.Concurrency.Workers = opts.workers
	}
	if flags.Changed("continue-on-error") {
		cfg.Concurrency.ContinueOnError = opts.continueOnError
	}
	if flags.Changed("clusters") {
		cfg.Render.Clusters = opts.clusters
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// seedIDs collects the -n values plus any trailing positional ids.
func seedIDs(nodes []int, args []string) ([]model.EntityID, error) {
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid entity id %q: must be a positive integer", a)
		}
		nodes = append(nodes, n)
	}

	ids := make([]model.EntityID, 0, len(nodes))
	for _, n := range nodes {
		if n <= 0 {
			return nil, fmt.Errorf("invalid entity id %d: must be a positive integer", n)
		}
		ids = append(ids, model.EntityID(n))
	}
	return ids, nil
}

func newConnector(cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) *discovery.Connector {
	client := sparql.NewClient(cfg.SPARQL, logger)
	finder := discovery.NewFinder(client, collector, logger)
	return discovery.NewConnector(finder, cfg, logger)
}

func runConnect(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ids, err := seedIDs(opts.nodes, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	collector := metrics.NewCollector("wikigraph")
	g, err := newConnector(cfg, collector, logger).Connect(ctx, ids)
	if err != nil {
		return err
	}

	if err := discovery.SkippedError(g); err != nil {
		logger.Warn("some pairs were skipped", zap.Error(err))
	}
	for _, c := range g.LabelConflicts {
		logger.Warn("seed label differs from inline label",
			zap.Stringer("entity", c.ID),
			zap.String("seed_label", c.SeedLabel),
			zap.String("inline_label", c.InlineLabel),
		)
	}

	renderer, err := render.NewGraphviz(cfg.Render, cfg.SPARQL.WikiRoot, logger)
	if err != nil {
		return err
	}
	files, err := renderer.Render(ctx, g, opts.output)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(out, f)
	}

	if opts.export {
		if err := exportGraph(ctx, cfg, g, logger); err != nil {
			return err
		}
	}

	if opts.narrate {
		narrator, err := newNarrator(ctx, cfg, logger)
		if err != nil {
			return err
		}
		text, err := narrator.Narrate(ctx, g)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, text)
	}

	return nil
}

func exportGraph(ctx context.Context, cfg *config.Config, g *model.Graph, logger *zap.Logger) error {
	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Memgraph: %w", err)
	}
	defer d.Close(ctx)

	if err := d.BuildIndices(ctx); err != nil {
		return err
	}
	return driver.NewExporter(d, cfg.SPARQL.WikiRoot, logger).Export(ctx, g)
}

func newNarrator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*summary.Narrator, error) {
	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return summary.NewNarrator(client, cfg.Summary, logger), nil
}
