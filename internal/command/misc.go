package command

import (
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// PING, with zero or one argument, echoed as a bulk string.
type pingCmd struct{}

func (pingCmd) Name() string  { return "PING" }
func (pingCmd) Arity() int    { return -1 }
func (pingCmd) Execute(_ *store.Store, args [][]byte) resp.Value {
	switch len(args) {
	case 0:
		return resp.SimpleStringf("PONG")
	case 1:
		return resp.BulkString(args[0])
	default:
		return resp.Errorf("ERR wrong number of arguments for 'ping' command")
	}
}

// FLUSHDB clears every namespace. The worker pool broadcasts one FlushDb
// request to every shard; repeated calls are idempotent since the second
// pass only deletes keys already gone.
type flushdbCmd struct{}

func (flushdbCmd) Name() string { return "FLUSHDB" }
func (flushdbCmd) Arity() int   { return 1 }
func (flushdbCmd) Execute(s *store.Store, _ [][]byte) resp.Value {
	if err := s.Flush(); err != nil {
		return mapStoreError(err)
	}
	return resp.SimpleStringf("OK")
}
