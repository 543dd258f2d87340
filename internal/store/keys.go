package store

import (
	"errors"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// Exists reports whether key currently holds a live value, of any type.
func (s *Store) Exists(key []byte) (bool, error) {
	_, ok, err := s.peekLive(key)
	return ok, err
}

// Del removes key's MetaKey record, whatever its type. Sub-keys belonging
// to a deleted collection are left behind; they become unreachable because
// every subsequent read is scoped to the version stamped in a fresh
// MetaKey, and the compaction filter eventually reclaims them once their
// owning MetaKey is gone (see compaction.go).
func (s *Store) Del(key []byte) (bool, error) {
	_, ok, err := s.peekLive(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := s.deleteMeta(key); err != nil {
		return false, err
	}
	return true, nil
}

// Expire sets key's TTL to the absolute epoch-millisecond deadline
// expireAtMs. Returns false if key does not currently exist.
func (s *Store) Expire(key []byte, expireAtMs uint64) (bool, error) {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return false, err
	}

	raw, err := s.meta.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, newEngineError(CodeDatabase, err)
	}

	kind, err := keyspace.PeekKind(raw)
	if err != nil {
		return false, newEngineError(CodeDecode, err)
	}

	expireMs, err := s.expireMsOf(kind, raw)
	if err != nil {
		return false, err
	}
	if expireMs != 0 && expireMs <= nowMs() {
		_ = s.meta.Delete(mk)
		return false, nil
	}

	if kind == keyspace.KindString {
		value, _, err := keyspace.DecodeStringValue(raw)
		if err != nil {
			return false, newEngineError(CodeDecode, err)
		}
		return true, s.putStringValue(key, value, expireAtMs)
	}

	m, err := keyspace.DecodeMeta(raw)
	if err != nil {
		return false, newEngineError(CodeDecode, err)
	}
	m.ExpireMs = expireAtMs
	return true, s.putMeta(key, m)
}

// TTL returns the remaining time to live for key in whole seconds, rounded
// up to the next second; -1 if key exists with no TTL set; -2 if key does
// not exist (or has just lazily expired).
func (s *Store) TTL(key []byte) (int64, error) {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return 0, err
	}

	raw, err := s.meta.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return -2, nil
	}
	if err != nil {
		return 0, newEngineError(CodeDatabase, err)
	}

	kind, err := keyspace.PeekKind(raw)
	if err != nil {
		return 0, newEngineError(CodeDecode, err)
	}

	expireMs, err := s.expireMsOf(kind, raw)
	if err != nil {
		return 0, err
	}
	if expireMs == 0 {
		return -1, nil
	}

	now := nowMs()
	if expireMs <= now {
		_ = s.meta.Delete(mk)
		return -2, nil
	}

	remaining := expireMs - now
	seconds := int64(remaining / 1000)
	if remaining%1000 != 0 {
		seconds++
	}
	return seconds, nil
}
