package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/core/community"
	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/logging"
)

// Renderer turns an assembled graph into files under output and returns
// their paths.
type Renderer interface {
	Render(ctx context.Context, g *model.Graph, output string) ([]string, error)
}

// CommandRunner runs an external program; tests replace it.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Graphviz writes the DOT source to the output path and, for image formats,
// converts it with the dot binary to output.<format>.
type Graphviz struct {
	Format    string
	DotBinary string
	DOT       DOTOptions
	Run       CommandRunner
	Logger    *zap.Logger
}

func NewGraphviz(cfg config.RenderConfig, wikiRoot string, logger *zap.Logger) (*Graphviz, error) {
	opts := DOTOptions{WikiRoot: wikiRoot, RankDir: cfg.RankDir}
	if cfg.Clusters {
		d, err := community.NewDetector(cfg.ClusterMethod)
		if err != nil {
			return nil, err
		}
		opts.Detector = d
	}
	return &Graphviz{
		Format:    cfg.Format,
		DotBinary: cfg.DotBinary,
		DOT:       opts,
		Run:       execRunner,
		Logger:    logging.OrNop(logger),
	}, nil
}

func (r *Graphviz) Render(ctx context.Context, g *model.Graph, output string) ([]string, error) {
	if output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := r.writeSource(g, output); err != nil {
		return nil, err
	}
	files := []string{output}

	switch r.Format {
	case "", "dot":
	case "json":
		target := output + ".json"
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", target, err)
		}
		files = append(files, target)
	default:
		target := output + "." + r.Format
		bin := r.DotBinary
		if bin == "" {
			bin = "dot"
		}
		if err := r.Run(ctx, bin, "-T"+r.Format, "-o", target, output); err != nil {
			return nil, fmt.Errorf("graphviz failed to render %s: %w", target, err)
		}
		files = append(files, target)
	}

	r.Logger.Info("graph rendered", zap.Strings("files", files))
	return files, nil
}

func (r *Graphviz) writeSource(g *model.Graph, output string) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := WriteDOT(f, g, r.DOT); err != nil {
		f.Close()
		return fmt.Errorf("failed to write DOT source: %w", err)
	}
	return f.Close()
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
