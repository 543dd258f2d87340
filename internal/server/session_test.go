package server

import (
	"bufio"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/dispatch"
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

func newTestPool(t *testing.T) *dispatch.Pool {
	t.Helper()
	dir, err := os.MkdirTemp("", "quiverdb-server")
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

	pool := dispatch.NewPool(2, s, command.NewTable(), log)
	t.Cleanup(pool.Shutdown)
	return pool
}

func TestSessionRespondsInOrder(t *testing.T) {
	pool := newTestPool(t)
	log, err := telemetry.New("error")
	require.NoError(t, err)
	defer log.Sync()

	client, srv := net.Pipe()
	go New(srv, pool, log).Serve()
	defer client.Close()

	_, err = client.Write([]byte("*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n*2\r\n$3\r\nGET\r\n$1\r\na\r\n"))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(client)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "+OK\r\n", line)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "$1\r\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "1\r\n", line)
}

func TestSessionClosesOnEOF(t *testing.T) {
	pool := newTestPool(t)
	log, err := telemetry.New("error")
	require.NoError(t, err)
	defer log.Sync()

	client, srv := net.Pipe()
	done := make(chan struct{})
	go func() {
		New(srv, pool, log).Serve()
		close(done)
	}()

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session never returned after client closed")
	}
}

func TestCommandPartsRejectsNonArray(t *testing.T) {
	_, _, err := commandParts(resp.SimpleStringf("PING"))
	assert.Error(t, err)
}
