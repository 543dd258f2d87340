package dispatch

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

func newTestPool(t *testing.T, n int) *Pool {
	t.Helper()
	dir, err := os.MkdirTemp("", "quiverdb-dispatch")
	require.NoError(t, err)
	s, err := store.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(dir)
	})

	log, err := telemetry.New("error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Sync() })

	table := command.NewTable()
	pool := NewPool(n, s, table, log)
	t.Cleanup(pool.Shutdown)
	return pool
}

func TestSubmitRoutesAndReplies(t *testing.T) {
	pool := newTestPool(t, 4)

	ch := pool.Submit("SET", [][]byte{[]byte("k1"), []byte("v1")})
	reply := <-ch
	assert.False(t, reply.IsError())

	ch = pool.Submit("GET", [][]byte{[]byte("k1")})
	reply = <-ch
	s, ok := reply.AsString()
	require.True(t, ok)
	assert.Equal(t, "v1", s)
}

func TestRouteIndexIsStableForSameKey(t *testing.T) {
	pool := newTestPool(t, 8)
	key := []byte("same-key")
	first := pool.routeIndex(key)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, pool.routeIndex(key))
	}
}

func TestBroadcastAggregatesOK(t *testing.T) {
	pool := newTestPool(t, 4)

	ch := pool.Broadcast("FLUSHDB", nil)
	reply := <-ch
	s, ok := reply.AsString()
	require.True(t, ok)
	assert.Equal(t, "OK", s)
}

func TestDispatchRoutesFlushdbToBroadcast(t *testing.T) {
	pool := newTestPool(t, 4)

	ch := pool.Dispatch("flushdb", nil)
	reply := <-ch
	s, ok := reply.AsString()
	require.True(t, ok)
	assert.Equal(t, "OK", s)
}

func TestUnknownCommandReturnsError(t *testing.T) {
	pool := newTestPool(t, 2)
	ch := pool.Submit("NOPE", [][]byte{[]byte("k")})
	reply := <-ch
	assert.True(t, reply.IsError())
}
