package command

import (
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// SET key value — unconditional put; no EX/PX/NX/XX (Open Question 3).
type setCmd struct{}

func (setCmd) Name() string { return "SET" }
func (setCmd) Arity() int   { return 3 }
func (setCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	if err := s.Set(args[0], args[1], 0); err != nil {
		return mapStoreError(err)
	}
	return resp.SimpleStringf("OK")
}

// GET key
type getCmd struct{}

func (getCmd) Name() string { return "GET" }
func (getCmd) Arity() int   { return 2 }
func (getCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, ok, err := s.Get(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	if !ok {
		return resp.Null()
	}
	return resp.BulkString(v)
}

// APPEND key value
type appendCmd struct{}

func (appendCmd) Name() string { return "APPEND" }
func (appendCmd) Arity() int   { return 3 }
func (appendCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.Append(args[0], args[1])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(int64(n))
}

// INCR key
type incrCmd struct{}

func (incrCmd) Name() string { return "INCR" }
func (incrCmd) Arity() int   { return 2 }
func (incrCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, err := s.Incr(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(v)
}

// DECR key
type decrCmd struct{}

func (decrCmd) Name() string { return "DECR" }
func (decrCmd) Arity() int   { return 2 }
func (decrCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, err := s.Decr(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(v)
}
