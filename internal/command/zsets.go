package command

import (
	"strconv"
	"strings"

	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// ZADD key score member [score member ...]
type zaddCmd struct{}

func (zaddCmd) Name() string { return "ZADD" }
func (zaddCmd) Arity() int   { return -4 }
func (zaddCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	pairs := args[1:]
	if len(pairs)%2 != 0 {
		return resp.Errorf("ERR syntax error")
	}
	scores := make([]float64, 0, len(pairs)/2)
	members := make([][]byte, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		score, err := strconv.ParseFloat(string(pairs[i]), 64)
		if err != nil {
			return resp.Errorf("ERR value is not a valid float")
		}
		scores = append(scores, score)
		members = append(members, pairs[i+1])
	}
	added, err := s.ZAdd(args[0], scores, members)
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(added)
}

// ZREM key member [member ...]
type zremCmd struct{}

func (zremCmd) Name() string { return "ZREM" }
func (zremCmd) Arity() int   { return -3 }
func (zremCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.ZRem(args[0], args[1:])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// ZSCORE key member
type zscoreCmd struct{}

func (zscoreCmd) Name() string { return "ZSCORE" }
func (zscoreCmd) Arity() int   { return 3 }
func (zscoreCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	score, ok, err := s.ZScore(args[0], args[1])
	if err != nil {
		return mapStoreError(err)
	}
	if !ok {
		return resp.Null()
	}
	return resp.BulkStringf(strconv.FormatFloat(score, 'g', -1, 64))
}

// ZCARD key
type zcardCmd struct{}

func (zcardCmd) Name() string { return "ZCARD" }
func (zcardCmd) Arity() int   { return 2 }
func (zcardCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	n, err := s.ZCard(args[0])
	if err != nil {
		return mapStoreError(err)
	}
	return resp.Integer(n)
}

// ZRANGE key start stop [WITHSCORES] — ascending score order; with scores,
// interleaves each member's decoded score string after it.
type zrangeCmd struct{}

func (zrangeCmd) Name() string { return "ZRANGE" }
func (zrangeCmd) Arity() int   { return -4 }
func (zrangeCmd) Execute(s *store.Store, args [][]byte) resp.Value {
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return resp.Errorf("ERR value is not an integer or out of range")
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return resp.Errorf("ERR value is not an integer or out of range")
	}

	withScores := false
	switch len(args) {
	case 3:
	case 4:
		if !strings.EqualFold(string(args[3]), "WITHSCORES") {
			return resp.Errorf("ERR syntax error")
		}
		withScores = true
	default:
		return resp.Errorf("ERR syntax error")
	}

	entries, err := s.ZRange(args[0], start, stop)
	if err != nil {
		return mapStoreError(err)
	}
	elems := make([]resp.Value, 0, len(entries))
	for _, e := range entries {
		elems = append(elems, resp.BulkString(e.Member))
		if withScores {
			elems = append(elems, resp.BulkStringf(strconv.FormatFloat(e.Score, 'g', -1, 64)))
		}
	}
	return resp.Array(elems...)
}
