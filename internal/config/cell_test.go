package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellGetExactAndGlob(t *testing.T) {
	c := NewCell(Defaults())

	pairs := c.Get("host")
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"host", "127.0.0.1"}, pairs[0])

	all := c.Get("*")
	assert.Len(t, all, len(fieldOrder))

	prefix := c.Get("log*")
	require.Len(t, prefix, 1)
	assert.Equal(t, "log_level", prefix[0][0])

	suffix := c.Get("*level")
	require.Len(t, suffix, 1)
	assert.Equal(t, "log_level", suffix[0][0])

	contains := c.Get("*_*")
	for _, p := range contains {
		assert.Contains(t, p[0], "_")
	}
}

func TestCellSetMutableField(t *testing.T) {
	c := NewCell(Defaults())
	var seen string
	c.OnLogLevelChange(func(level string) { seen = level })

	require.NoError(t, c.Set("log_level", "debug"))
	assert.Equal(t, "debug", c.Snapshot().LogLevel)
	assert.Equal(t, "debug", seen)
}

func TestCellSetImmutableField(t *testing.T) {
	c := NewCell(Defaults())
	err := c.Set("port", "7000")
	require.Error(t, err)
	assert.Equal(t, uint16(6379), c.Snapshot().Port)
}

func TestCellSetUnknownField(t *testing.T) {
	c := NewCell(Defaults())
	err := c.Set("does_not_exist", "x")
	require.Error(t, err)
}
