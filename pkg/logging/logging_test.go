package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	l, err := New()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewDefaultsToDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	l, err := New()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewFallsBackOnBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	l, err := New()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}
