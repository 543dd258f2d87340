package command

import (
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// SADD key member [member ...]
type saddCmd struct{}

func (saddCmd) Name() string { return "SADD" }
func (saddCmd) Arity() int   { return -3 }
func (saddCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.SAdd(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// SREM key member [member ...]
type sremCmd struct{}

func (sremCmd) Name() string { return "SREM" }
func (sremCmd) Arity() int   { return -3 }
func (sremCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.SRem(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// SISMEMBER key member
type sismemberCmd struct{}

func (sismemberCmd) Name() string { return "SISMEMBER" }
func (sismemberCmd) Arity() int   { return 3 }
func (sismemberCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	ok, err := s.SIsMember(args[0], args[1])
	if err != nil {
		return mapStoreError(err)
	}
	return boolReply(ok)
}

// SMEMBERS key
type smembersCmd struct{}

func (smembersCmd) Name() string { return "SMEMBERS" }
func (smembersCmd) Arity() int   { return 2 }
func (smembersCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	members, err := s.SMembers(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	elems := make([]resp.Value, len(members))
	for i, m := range members {
		elems[i] = resp.BulkString(m)
	}
	return resp.Array(elems...)
}

// SCARD key
type scardCmd struct{}

func (scardCmd) Name() string { return "SCARD" }
func (scardCmd) Arity() int   { return 2 }
func (scardCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.SCard(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}
