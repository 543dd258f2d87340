package store

import (
	"errors"
	"time"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}

// NowMsPlusSeconds returns the absolute epoch-millisecond deadline seconds
// from now, for callers (command handlers) translating a relative EXPIRE
// argument into the absolute deadline Expire expects. A non-positive
// seconds value yields a deadline already in the past, which Expire treats
// as an immediate lazy-expiry on the next read.
func NowMsPlusSeconds(seconds int64) uint64 {
	return uint64(int64(nowMs()) + seconds*1000)
}

// nonDurableBatch returns write-batch options for command-handler writes:
// grouped for atomicity but not fsynced per call, matching the "best-effort
// durability" policy — when data reaches disk is left to the engine's own
// SyncWrites/BytesPerSync options, not decided per command.
func nonDurableBatch() engine.WriteBatchOptions {
	opts := engine.DefaultWriteBatchOptions
	opts.SyncWrites = false
	return opts
}

// lookupMeta reads key's MetaKey record from the meta namespace.
//
//   - absent: ok=false, err=nil.
//   - present but a different kind: ErrWrongType.
//   - present but expired: best-effort deletes the record and reports
//     ok=false, as if it had never existed (lazy expiry).
//   - present, live, matching kind: ok=true.
func (s *Store) lookupMeta(key []byte, want keyspace.Kind) (keyspace.Meta, bool, error) {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return keyspace.Meta{}, false, err
	}

	raw, err := s.meta.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return keyspace.Meta{}, false, nil
	}
	if err != nil {
		return keyspace.Meta{}, false, newEngineError(CodeDatabase, err)
	}

	kind, err := keyspace.PeekKind(raw)
	if err != nil {
		return keyspace.Meta{}, false, newEngineError(CodeDecode, err)
	}
	if kind == keyspace.KindString {
		// want is never KindString here: string ops use lookupStringValue.
		return keyspace.Meta{}, false, ErrWrongType
	}
	if kind != want {
		return keyspace.Meta{}, false, ErrWrongType
	}

	m, err := keyspace.DecodeMeta(raw)
	if err != nil {
		return keyspace.Meta{}, false, newEngineError(CodeDecode, err)
	}

	if m.ExpireMs != 0 && m.ExpireMs <= nowMs() {
		_ = s.meta.Delete(mk)
		return keyspace.Meta{}, false, nil
	}

	return m, true, nil
}

// findOrCreateMeta returns key's live metadata for kind, creating a fresh
// record (with a newly minted version) if absent or lazily expired. The
// caller is responsible for persisting the returned Meta if it mutates the
// collection — findOrCreateMeta never writes on the absent/expired path,
// it only decides what the fresh record should look like.
func (s *Store) findOrCreateMeta(key []byte, kind keyspace.Kind) (keyspace.Meta, error) {
	m, ok, err := s.lookupMeta(key, kind)
	if err != nil {
		return keyspace.Meta{}, err
	}
	if ok {
		return m, nil
	}

	m = keyspace.Meta{Kind: kind, Version: s.versions.Next()}
	if kind == keyspace.KindList {
		m.Head = keyspace.ListOrigin
		m.Tail = keyspace.ListOrigin
	}
	return m, nil
}

func (s *Store) putMeta(key []byte, m keyspace.Meta) error {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return err
	}
	if err := s.meta.Put(mk, keyspace.EncodeMeta(m)); err != nil {
		return newEngineError(CodeDatabase, err)
	}
	return nil
}

func (s *Store) deleteMeta(key []byte) error {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return err
	}
	if err := s.meta.Delete(mk); err != nil {
		return newEngineError(CodeDatabase, err)
	}
	return nil
}

// lookupStringValue reads key's String AnyValue record. Absence and
// WrongType/expiry follow the same policy as lookupMeta.
func (s *Store) lookupStringValue(key []byte) (value []byte, expireMs uint64, ok bool, err error) {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := s.meta.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, newEngineError(CodeDatabase, err)
	}

	kind, err := keyspace.PeekKind(raw)
	if err != nil {
		return nil, 0, false, newEngineError(CodeDecode, err)
	}
	if kind != keyspace.KindString {
		return nil, 0, false, ErrWrongType
	}

	value, expireMs, err = keyspace.DecodeStringValue(raw)
	if err != nil {
		return nil, 0, false, newEngineError(CodeDecode, err)
	}

	if expireMs != 0 && expireMs <= nowMs() {
		_ = s.meta.Delete(mk)
		return nil, 0, false, nil
	}

	return value, expireMs, true, nil
}

// peekLive reports the Kind of key's MetaKey record if it exists and has
// not lazily expired, regardless of what kind it is. Used by key-generic
// operations (EXISTS, DEL, EXPIRE, TTL) that don't know the type in advance.
func (s *Store) peekLive(key []byte) (keyspace.Kind, bool, error) {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return 0, false, err
	}

	raw, err := s.meta.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, newEngineError(CodeDatabase, err)
	}

	kind, err := keyspace.PeekKind(raw)
	if err != nil {
		return 0, false, newEngineError(CodeDecode, err)
	}

	expireMs, err := s.expireMsOf(kind, raw)
	if err != nil {
		return 0, false, err
	}
	if expireMs != 0 && expireMs <= nowMs() {
		_ = s.meta.Delete(mk)
		return 0, false, nil
	}

	return kind, true, nil
}

// expireMsOf extracts the expire_ms deadline from an already-fetched
// MetaKey record, dispatching on its type tag.
func (s *Store) expireMsOf(kind keyspace.Kind, raw []byte) (uint64, error) {
	if kind == keyspace.KindString {
		_, expireMs, err := keyspace.DecodeStringValue(raw)
		if err != nil {
			return 0, newEngineError(CodeDecode, err)
		}
		return expireMs, nil
	}
	m, err := keyspace.DecodeMeta(raw)
	if err != nil {
		return 0, newEngineError(CodeDecode, err)
	}
	return m.ExpireMs, nil
}

func (s *Store) putStringValue(key, value []byte, expireMs uint64) error {
	mk, err := keyspace.MetaKey(key)
	if err != nil {
		return err
	}
	if err := s.meta.Put(mk, keyspace.EncodeStringValue(value, expireMs)); err != nil {
		return newEngineError(CodeDatabase, err)
	}
	return nil
}
