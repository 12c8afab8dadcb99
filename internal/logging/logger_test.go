package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewAndWith(t *testing.T) {
	log := New(slog.LevelDebug, "json")
	require.NotNil(t, log)

	child := log.With(Component("test"))
	require.NotNil(t, child)
	assert.NotSame(t, log, child)
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "component", Component("x").Key)
	assert.Equal(t, "run_id", RunID("x").Key)
	assert.Equal(t, "source", Source("x").Key)
	assert.Equal(t, "residual", Residual(1).Key)
	assert.Equal(t, "workers", Workers(4).Key)
}
