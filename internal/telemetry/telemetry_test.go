package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsUnrecognizedLevelToInfo(t *testing.T) {
	l, err := New("not-a-level")
	require.NoError(t, err)
	defer l.Sync()

	assert.Equal(t, zapcore.InfoLevel, l.level.Level())
}

func TestSetLevelReloadsLive(t *testing.T) {
	l, err := New("info")
	require.NoError(t, err)
	defer l.Sync()

	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, l.level.Level())

	assert.Error(t, l.SetLevel("not-a-level"))
}

func TestNamedSharesLevel(t *testing.T) {
	l, err := New("info")
	require.NoError(t, err)
	defer l.Sync()

	child := l.Named("worker")
	require.NoError(t, l.SetLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, child.level.Level())
}
