//go:build integration

package sparql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/wikigraph/internal/config"
)

// Runs against the public endpoint: go test -tags integration ./internal/sparql
func TestLive_LabelOfDouglasAdams(t *testing.T) {
	cfg := config.Default().SPARQL
	cfg.Retry.MaxAttempts = 3
	c := NewClient(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := c.Query(ctx, LabelQuery(42))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Rows())

	label, err := resp.Rows()[0].Value("label")
	require.NoError(t, err)
	assert.Equal(t, "Douglas Adams", label)
}
