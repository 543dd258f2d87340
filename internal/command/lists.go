package command

import (
	"strconv"

	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// LPUSH key element [element ...]
type lpushCmd struct{}

func (lpushCmd) Name() string { return "LPUSH" }
func (lpushCmd) Arity() int   { return -3 }
func (lpushCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.LPush(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// RPUSH key element [element ...]
type rpushCmd struct{}

func (rpushCmd) Name() string { return "RPUSH" }
func (rpushCmd) Arity() int   { return -3 }
func (rpushCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.RPush(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// LPOP key
type lpopCmd struct{}

func (lpopCmd) Name() string { return "LPOP" }
func (lpopCmd) Arity() int   { return 2 }
func (lpopCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, ok, err := s.LPop(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	if !ok {
		return resp.Null()
	}
	return resp.BulkString(v)
}

// RPOP key
type rpopCmd struct{}

func (rpopCmd) Name() string { return "RPOP" }
func (rpopCmd) Arity() int   { return 2 }
func (rpopCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, ok, err := s.RPop(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	if !ok {
		return resp.Null()
	}
	return resp.BulkString(v)
}

// LLEN key
type llenCmd struct{}

func (llenCmd) Name() string { return "LLEN" }
func (llenCmd) Arity() int   { return 2 }
func (llenCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.LLen(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// LRANGE key start stop
type lrangeCmd struct{}

func (lrangeCmd) Name() string { return "LRANGE" }
func (lrangeCmd) Arity() int   { return 4 }
func (lrangeCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return resp.Errorf("ERR value is not an integer or out of range")
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return resp.Errorf("ERR value is not an integer or out of range")
	}
	elements, err := s.LRange(args[0], start, stop)
	if err != nil {
		return mapStoreError(err)
	}
	elems := make([]resp.Value, len(elements))
	for i, e := range elements {
		elems[i] = resp.BulkString(e)
	}
	return resp.Array(elems...)
}
