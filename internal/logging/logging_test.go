package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/agenthands/wikigraph/internal/config"
)

func TestNew(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
