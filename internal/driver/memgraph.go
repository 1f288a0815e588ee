package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/logging"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	Logger *zap.Logger
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger *zap.Logger) (*MemgraphDriver, error) {
	logger = logging.OrNop(logger)

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach %s: %w", uri, err)
	}

	logger.Info("connected to Memgraph", zap.String("uri", uri))
	return &MemgraphDriver{Driver: driver, Logger: logger}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	for _, q := range indexQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Memgraph errors when the index already exists.
			d.Logger.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}
	return nil
}
