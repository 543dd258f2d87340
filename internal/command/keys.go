package command

import (
	"strconv"

	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// EXISTS key
type existsCmd struct{}

func (existsCmd) Name() string { return "EXISTS" }
func (existsCmd) Arity() int   { return 2 }
func (existsCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	ok, err := s.Exists(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return boolReply(ok)
}

// DEL key
type delCmd struct{}

func (delCmd) Name() string { return "DEL" }
func (delCmd) Arity() int   { return 2 }
func (delCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	ok, err := s.Del(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return boolReply(ok)
}

// EXPIRE key seconds — seconds is relative to now, converted to the
// absolute epoch-millisecond deadline the storage facade expects.
type expireCmd struct{}

func (expireCmd) Name() string { return "EXPIRE" }
func (expireCmd) Arity() int   { return 3 }
func (expireCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	seconds, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return resp.Errorf("ERR value is not an integer or out of range")
	}
	ok, err := s.Expire(args[0], store.NowMsPlusSeconds(seconds))
	if err != nil {
		return mapStoreError(err)
	}
	return boolReply(ok)
}

// TTL key
type ttlCmd struct{}

func (ttlCmd) Name() string { return "TTL" }
func (ttlCmd) Arity() int   { return 2 }
func (ttlCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	seconds, err := s.TTL(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(seconds)
}

// boolReply renders the Redis-standard 0/1 integer reply DEL and EXISTS use
// for their single-key form.
func boolReply(ok bool) resp.Value {
	if ok {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}
