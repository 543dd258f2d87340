package store

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// ZAdd adds or updates (score, member) pairs in the sorted set at key,
// creating its metadata if absent or lazily expired. For a member whose
// score changes, the old score-index entry and the new one are written in
// the same WriteBatch as the member-index rewrite, so a concurrent reader
// can never observe the dual index mid-update. Returns how many members
// were newly added (score-only updates to existing members don't count).
// Rejects any NaN score without touching the set.
func (s *Store) ZAdd(key []byte, scores []float64, members [][]byte) (int64, error) {
	for _, score := range scores {
		if math.IsNaN(score) {
			return 0, ErrNotFloat
		}
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	meta, err := s.findOrCreateMeta(key, keyspace.KindZSet)
	if err != nil {
		return 0, err
	}

	wb := s.zset.NewWriteBatch(nonDurableBatch())
	// pending tracks, per member already seen in this call, the encoded
	// score last staged for it — so a repeated member (ZADD z 1 m 2 m)
	// updates in place against the still-uncommitted batch instead of
	// re-reading committed state and counting itself as added twice.
	pending := make(map[string]uint64, len(members))
	var added int64
	for i, member := range members {
		encodedScore := keyspace.EncodeScore(scores[i])

		mk, err := keyspace.ZSetMemberKey(key, meta.Version, member)
		if err != nil {
			return 0, err
		}

		var oldScore uint64
		var haveOld bool
		if staged, dup := pending[string(mk)]; dup {
			oldScore, haveOld = staged, true
		} else {
			existing, getErr := s.zset.Get(mk)
			switch {
			case errors.Is(getErr, engine.ErrKeyNotFound):
				added++
				meta.Len++
			case getErr != nil:
				return 0, newEngineError(CodeDatabase, getErr)
			default:
				oldScore, haveOld = decodeEncodedScoreBytes(existing), true
			}
		}

		if haveOld {
			if oldScore == encodedScore {
				pending[string(mk)] = encodedScore
				continue
			}
			oldSk, err := keyspace.ZSetScoreKey(key, meta.Version, oldScore, member)
			if err != nil {
				return 0, err
			}
			if err := wb.Delete(oldSk); err != nil {
				return 0, newEngineError(CodeDatabase, err)
			}
		}
		pending[string(mk)] = encodedScore

		newSk, err := keyspace.ZSetScoreKey(key, meta.Version, encodedScore, member)
		if err != nil {
			return 0, err
		}
		if err := wb.Put(newSk, nil); err != nil {
			return 0, newEngineError(CodeDatabase, err)
		}
		if err := wb.Put(mk, encodeScoreBytes(encodedScore)); err != nil {
			return 0, newEngineError(CodeDatabase, err)
		}
	}

	if err := wb.Commit(); err != nil {
		return 0, newEngineError(CodeDatabase, err)
	}
	if err := s.putMeta(key, meta); err != nil {
		return 0, err
	}
	return added, nil
}

// ZRem removes members from the sorted set at key, deleting both index
// entries for each in a single batch. Deletes the metadata if the set
// becomes empty.
func (s *Store) ZRem(key []byte, members [][]byte) (int64, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	meta, ok, err := s.lookupMeta(key, keyspace.KindZSet)
	if err != nil || !ok {
		return 0, err
	}

	wb := s.zset.NewWriteBatch(nonDurableBatch())
	var removed int64
	for _, member := range members {
		mk, err := keyspace.ZSetMemberKey(key, meta.Version, member)
		if err != nil {
			return 0, err
		}
		existing, getErr := s.zset.Get(mk)
		if errors.Is(getErr, engine.ErrKeyNotFound) {
			continue
		}
		if getErr != nil {
			return 0, newEngineError(CodeDatabase, getErr)
		}

		score := decodeEncodedScoreBytes(existing)
		sk, err := keyspace.ZSetScoreKey(key, meta.Version, score, member)
		if err != nil {
			return 0, err
		}
		if err := wb.Delete(mk); err != nil {
			return 0, newEngineError(CodeDatabase, err)
		}
		if err := wb.Delete(sk); err != nil {
			return 0, newEngineError(CodeDatabase, err)
		}
		removed++
		meta.Len--
	}

	if removed == 0 {
		return 0, nil
	}
	if err := wb.Commit(); err != nil {
		return 0, newEngineError(CodeDatabase, err)
	}

	if meta.Len == 0 {
		if err := s.deleteMeta(key); err != nil {
			return 0, err
		}
	} else if err := s.putMeta(key, meta); err != nil {
		return 0, err
	}
	return removed, nil
}

// ZScore returns the score of member in the sorted set at key.
func (s *Store) ZScore(key, member []byte) (float64, bool, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	meta, ok, err := s.lookupMeta(key, keyspace.KindZSet)
	if err != nil || !ok {
		return 0, false, err
	}

	mk, err := keyspace.ZSetMemberKey(key, meta.Version, member)
	if err != nil {
		return 0, false, err
	}
	existing, err := s.zset.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, newEngineError(CodeDatabase, err)
	}
	return keyspace.DecodeScore(decodeEncodedScoreBytes(existing)), true, nil
}

// ZCard returns the number of members in the sorted set at key.
func (s *Store) ZCard(key []byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindZSet)
	if err != nil || !ok {
		return 0, err
	}
	return int64(meta.Len), nil
}

// ZRangeEntry is one member of a ZRange result, in ascending score order.
type ZRangeEntry struct {
	Member []byte
	Score  float64
}

// ZRange scans the score index in order and returns entries start..stop
// inclusive, with Redis-style negative-index semantics relative to the
// set's current length.
func (s *Store) ZRange(key []byte, start, stop int64) ([]ZRangeEntry, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindZSet)
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

	prefix, err := keyspace.ZSetScorePrefix(key, meta.Version)
	if err != nil {
		return nil, err
	}

	it := s.zset.NewIterator(engine.IteratorOptions{Prefix: prefix})
	defer it.Close()

	var idx int64
	var entries []ZRangeEntry
	for it.Rewind(); it.Valid(); it.Next() {
		if idx > stop {
			break
		}
		if idx >= start {
			_, _, encodedScore, member, err := keyspace.DecodeZSetScoreKey(it.Key())
			if err != nil {
				return nil, newEngineError(CodeDecode, err)
			}
			entries = append(entries, ZRangeEntry{Member: member, Score: keyspace.DecodeScore(encodedScore)})
		}
		idx++
	}
	return entries, nil
}

// encodeScoreBytes/decodeEncodedScoreBytes store a zset member's encoded
// score (already order-preserving-mapped by keyspace.EncodeScore) as the
// M-entry's value, in the same big-endian layout used for the score index
// key so the two stay trivially consistent with each other.
func encodeScoreBytes(encoded uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, encoded)
	return b
}

func decodeEncodedScoreBytes(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
