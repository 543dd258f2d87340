package command

import (
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// HSET key field value [field value ...]
type hsetCmd struct{}

func (hsetCmd) Name() string { return "HSET" }
func (hsetCmd) Arity() int   { return -4 }
func (hsetCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	pairs := args[1:]
	if len(pairs)%2 != 0 {
		return resp.Errorf("ERR wrong number of arguments for 'hset' command")
	}
	fields := make([][]byte, 0, len(pairs)/2)
	values := make([][]byte, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields = append(fields, pairs[i])
		values = append(values, pairs[i+1])
	}
	added, err := s.HSet(args[0], fields, values)
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(added)
}

// HGET key field
type hgetCmd struct{}

func (hgetCmd) Name() string { return "HGET" }
func (hgetCmd) Arity() int   { return 3 }
func (hgetCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	v, ok, err := s.HGet(args[0], args[1])
	if err != nil {
		return mapStoreError(err)
	}
	if !ok {
		return resp.Null()
	}
	return resp.BulkString(v)
}

// HLEN key
type hlenCmd struct{}

func (hlenCmd) Name() string { return "HLEN" }
func (hlenCmd) Arity() int   { return 2 }
func (hlenCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.HLen(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// HMGET key field [field ...]
type hmgetCmd struct{}

func (hmgetCmd) Name() string { return "HMGET" }
func (hmgetCmd) Arity() int   { return -3 }
func (hmgetCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	values, found, err := s.HMGet(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	elems := make([]resp.Value, len(values))
	for i := range values {
		if found[i] {
			elems[i] = resp.BulkString(values[i])
		} else {
			elems[i] = resp.Null()
		}
	}
	return resp.Array(elems...)
}

// HGETALL key
type hgetallCmd struct{}

func (hgetallCmd) Name() string { return "HGETALL" }
func (hgetallCmd) Arity() int   { return 2 }
func (hgetallCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	fields, values, err := s.HGetAll(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	elems := make([]resp.Value, 0, 2*len(fields))
	for i := range fields {
		elems = append(elems, resp.BulkString(fields[i]), resp.BulkString(values[i]))
	}
	return resp.Array(elems...)
}

// HDEL key field [field ...]
type hdelCmd struct{}

func (hdelCmd) Name() string { return "HDEL" }
func (hdelCmd) Arity() int   { return -3 }
func (hdelCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.HDel(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}
