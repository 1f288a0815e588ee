package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/core/community"
	"github.com/agenthands/wikigraph/internal/logging"
	"github.com/agenthands/wikigraph/internal/metrics"
	"github.com/agenthands/wikigraph/internal/render"
	"github.com/agenthands/wikigraph/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *options) *cobra.Command {
	var (
		port    string
		narrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the connection finder over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.Log.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			collector := metrics.NewCollector("wikigraph")
			dot := render.DOTOptions{WikiRoot: cfg.SPARQL.WikiRoot, RankDir: cfg.Render.RankDir}
			if cfg.Render.Clusters {
				if dot.Detector, err = community.NewDetector(cfg.Render.ClusterMethod); err != nil {
					return err
				}
			}

			srv := server.NewServer(newConnector(cfg, collector, logger), collector, dot, logger)
			if narrate {
				if srv.Narrator, err = newNarrator(cmd.Context(), cfg, logger); err != nil {
					return err
				}
			}

			return listen(cmd.Context(), ":"+cfg.Server.Port, srv.SetupRouter(), logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides server.port and PORT)")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "Allow clients to request LLM narration")
	return cmd
}

func listen(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	httpServer := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
