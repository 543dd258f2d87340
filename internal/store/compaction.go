package store

import (
	"errors"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// metaCompactionFilter reclaims expired AnyValue records directly: a plain
// string value whose TTL has passed, or a collection's metadata record
// whose TTL has passed. It never needs to consult another namespace.
func metaCompactionFilter(key, value []byte) engine.CompactionDecision {
	kind, err := keyspace.PeekKind(value)
	if err != nil {
		return engine.CompactionKeep
	}

	var expireMs uint64
	if kind == keyspace.KindString {
		_, expireMs, err = keyspace.DecodeStringValue(value)
	} else {
		var m keyspace.Meta
		m, err = keyspace.DecodeMeta(value)
		expireMs = m.ExpireMs
	}
	if err != nil {
		return engine.CompactionKeep
	}

	if expireMs != 0 && expireMs <= nowMs() {
		return engine.CompactionDrop
	}
	return engine.CompactionKeep
}

// collectionCompactionFilter reclaims a collection namespace's sub-keys
// once their owning MetaKey record (in metaDB) is missing, expired, of a
// different kind, or stamped with a different version — each case meaning
// the sub-key is an orphan left behind by a DEL, a TTL expiry, or a
// delete-then-recreate of the same user key. Lookup errors default to
// keep, matching the "never lose data on uncertainty" rule.
func collectionCompactionFilter(metaDB *engine.Database, want keyspace.Kind) engine.CompactionFilterFunc {
	return func(key, value []byte) engine.CompactionDecision {
		userKey, version, err := keyspace.DecodeSubKeyVersion(key)
		if err != nil {
			return engine.CompactionKeep
		}

		mk, err := keyspace.MetaKey(userKey)
		if err != nil {
			return engine.CompactionKeep
		}

		raw, err := metaDB.Get(mk)
		if errors.Is(err, engine.ErrKeyNotFound) {
			return engine.CompactionDrop
		}
		if err != nil {
			return engine.CompactionKeep
		}

		kind, err := keyspace.PeekKind(raw)
		if err != nil {
			return engine.CompactionKeep
		}
		if kind != want {
			return engine.CompactionDrop
		}

		meta, err := keyspace.DecodeMeta(raw)
		if err != nil {
			return engine.CompactionKeep
		}
		if meta.ExpireMs != 0 && meta.ExpireMs <= nowMs() {
			return engine.CompactionDrop
		}
		if meta.Version != version {
			return engine.CompactionDrop
		}
		return engine.CompactionKeep
	}
}
