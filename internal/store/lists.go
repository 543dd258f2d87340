package store

import (
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// LPush inserts elements at the head of the list at key, one at a time in
// the order given (so `LPUSH k a b c` leaves the list as c, b, a, ...,
// matching Redis), creating the list's metadata if absent or lazily
// expired. Returns the list's length after every element has been pushed.
func (s *Store) LPush(key []byte, elements [][]byte) (int64, error) {
	return s.push(key, elements, true)
}

// RPush inserts elements at the tail of the list at key, one at a time in
// the order given.
func (s *Store) RPush(key []byte, elements [][]byte) (int64, error) {
	return s.push(key, elements, false)
}

func (s *Store) push(key []byte, elements [][]byte, left bool) (int64, error) {
	meta, err := s.findOrCreateMeta(key, keyspace.KindList)
	if err != nil {
		return 0, err
	}

	for _, element := range elements {
		var seq uint64
		if left {
			meta.Head--
			seq = meta.Head
		} else {
			seq = meta.Tail
			meta.Tail++
		}

		ek, err := keyspace.ListElementKey(key, meta.Version, seq)
		if err != nil {
			return 0, err
		}
		if err := s.list.Put(ek, element); err != nil {
			return 0, newEngineError(CodeDatabase, err)
		}
		meta.Len++
	}

	if err := s.putMeta(key, meta); err != nil {
		return 0, err
	}
	return int64(meta.Len), nil
}

// LPop removes and returns the first element of the list at key.
func (s *Store) LPop(key []byte) ([]byte, bool, error) {
	return s.pop(key, true)
}

// RPop removes and returns the last element of the list at key.
func (s *Store) RPop(key []byte) ([]byte, bool, error) {
	return s.pop(key, false)
}

func (s *Store) pop(key []byte, left bool) ([]byte, bool, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindList)
	if err != nil || !ok {
		return nil, false, err
	}
	if meta.Len == 0 {
		return nil, false, nil
	}

	var seq uint64
	if left {
		seq = meta.Head
	} else {
		seq = meta.Tail - 1
	}

	ek, err := keyspace.ListElementKey(key, meta.Version, seq)
	if err != nil {
		return nil, false, err
	}
	value, err := s.list.Get(ek)
	if err != nil {
		return nil, false, newEngineError(CodeDatabase, err)
	}
	if err := s.list.Delete(ek); err != nil {
		return nil, false, newEngineError(CodeDatabase, err)
	}

	meta.Len--
	if left {
		meta.Head++
	} else {
		meta.Tail--
	}

	if meta.Len == 0 {
		if err := s.deleteMeta(key); err != nil {
			return nil, false, err
		}
	} else if err := s.putMeta(key, meta); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// LLen returns the number of elements in the list at key.
func (s *Store) LLen(key []byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindList)
	if err != nil || !ok {
		return 0, err
	}
	return int64(meta.Len), nil
}

// LRange returns elements start..stop inclusive, with the same negative-index
// semantics as Redis (-1 is the last element), clamped to the list's bounds.
func (s *Store) LRange(key []byte, start, stop int64) ([][]byte, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindList)
	if err != nil || !ok {
		return nil, err
	}

	length := int64(meta.Len)
	if length == 0 {
		return nil, nil
	}

	start = normalizeIndex(start, length)
	stop = normalizeIndex(stop, length)
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop {
		return nil, nil
	}

	elements := make([][]byte, 0, stop-start+1)
	for idx := start; idx <= stop; idx++ {
		seq := meta.Head + uint64(idx)
		ek, err := keyspace.ListElementKey(key, meta.Version, seq)
		if err != nil {
			return nil, err
		}
		value, err := s.list.Get(ek)
		if err != nil {
			return nil, newEngineError(CodeDatabase, err)
		}
		elements = append(elements, value)
	}
	return elements, nil
}

// normalizeIndex maps a possibly-negative Redis-style index onto [0, length).
func normalizeIndex(idx, length int64) int64 {
	if idx < 0 {
		idx += length
	}
	return idx
}
