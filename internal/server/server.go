package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/core/discovery"
	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/logging"
	"github.com/agenthands/wikigraph/internal/metrics"
	"github.com/agenthands/wikigraph/internal/render"
)

// Connector assembles the connection graph between seed entities.
type Connector interface {
	Connect(ctx context.Context, ids []model.EntityID) (*model.Graph, error)
}

// Narrator explains a graph in prose.
type Narrator interface {
	Narrate(ctx context.Context, g *model.Graph) (string, error)
}

type Server struct {
	Connector Connector
	Narrator  Narrator
	Metrics   *metrics.Collector
	DOT       render.DOTOptions
	Logger    *zap.Logger
}

func NewServer(connector Connector, collector *metrics.Collector, dot render.DOTOptions, logger *zap.Logger) *Server {
	return &Server{
		Connector: connector,
		Metrics:   collector,
		DOT:       dot,
		Logger:    logging.OrNop(logger),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/connect", s.Connect)
	r.GET("/healthz", s.Health)
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

type ConnectRequest struct {
	Entities []uint64 `json:"entities"`
	Format   string   `json:"format"`
	Narrate  bool     `json:"narrate"`
}

type ConnectResponse struct {
	Graph   *model.Graph `json:"graph"`
	Summary string       `json:"summary,omitempty"`
}

func (s *Server) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Format != "json" && req.Format != "dot" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or dot"})
		return
	}
	if req.Narrate && s.Narrator == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "narration is not configured"})
		return
	}

	ids := make([]model.EntityID, 0, len(req.Entities))
	for _, e := range req.Entities {
		if e == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "entity ids must be positive"})
			return
		}
		ids = append(ids, model.EntityID(e))
	}

	g, err := s.Connector.Connect(c.Request.Context(), ids)
	if errors.Is(err, discovery.ErrNoSeeds) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.Logger.Error("connect failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if req.Format == "dot" {
		var buf bytes.Buffer
		if err := render.WriteDOT(&buf, g, s.DOT); err != nil {
			s.Logger.Error("dot generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render graph"})
			return
		}
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", buf.Bytes())
		return
	}

	resp := ConnectResponse{Graph: g}
	if req.Narrate {
		resp.Summary, err = s.Narrator.Narrate(c.Request.Context(), g)
		if err != nil {
			s.Logger.Error("narration failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to narrate graph"})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
