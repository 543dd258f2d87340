package store

import (
	"path/filepath"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// Store is the storage facade: one engine.Database per logical namespace
// (string/hash/list/set/zset), plus the version generator and lock manager
// every per-type operation file shares. The string namespace doubles as the
// metadata registry: every collection's MetaKey/AnyValue record lives there
// alongside plain string values, so that a compaction filter running over
// any collection namespace can look up its owning key's metadata with a
// single lookup against one well-known namespace.
type Store struct {
	meta *engine.Database // "string" namespace: String values + every MetaKey record
	hash *engine.Database
	list *engine.Database
	set  *engine.Database
	zset *engine.Database

	versions *VersionGenerator
	locks    *LockManager
}

// Namespaces names the five on-disk subdirectories under a data root, per
// the persisted state layout.
var Namespaces = []string{"string", "hash", "list", "set", "zset"}

// Open opens (creating if necessary) the five namespace engines rooted at
// dataPath, each in its own subdirectory, and returns the assembled facade.
// The meta/string namespace is opened first so its handle is available to
// build the other four namespaces' compaction filters.
func Open(dataPath string) (*Store, error) {
	metaOpts := engine.DefaultOptions
	metaOpts.DirectoryPath = filepath.Join(dataPath, "string")
	metaOpts.IndexType = engine.BTree
	metaOpts.CompactionFilter = engine.CompactionFilterFunc(metaCompactionFilter)

	meta, err := engine.Open(metaOpts)
	if err != nil {
		return nil, err
	}

	hashOpts := engine.DefaultOptions
	hashOpts.DirectoryPath = filepath.Join(dataPath, "hash")
	hashOpts.IndexType = engine.ART
	hashOpts.CompactionFilter = collectionCompactionFilter(meta, keyspace.KindHash)

	listOpts := engine.DefaultOptions
	listOpts.DirectoryPath = filepath.Join(dataPath, "list")
	listOpts.IndexType = engine.BTree
	listOpts.CompactionFilter = collectionCompactionFilter(meta, keyspace.KindList)

	setOpts := engine.DefaultOptions
	setOpts.DirectoryPath = filepath.Join(dataPath, "set")
	setOpts.IndexType = engine.ART
	setOpts.CompactionFilter = collectionCompactionFilter(meta, keyspace.KindSet)

	zsetOpts := engine.DefaultOptions
	zsetOpts.DirectoryPath = filepath.Join(dataPath, "zset")
	zsetOpts.IndexType = engine.BPlusTree
	zsetOpts.CompactionFilter = collectionCompactionFilter(meta, keyspace.KindZSet)

	hash, err := engine.Open(hashOpts)
	if err != nil {
		_ = meta.Close()
		return nil, err
	}
	list, err := engine.Open(listOpts)
	if err != nil {
		_ = meta.Close()
		_ = hash.Close()
		return nil, err
	}
	set, err := engine.Open(setOpts)
	if err != nil {
		_ = meta.Close()
		_ = hash.Close()
		_ = list.Close()
		return nil, err
	}
	zset, err := engine.Open(zsetOpts)
	if err != nil {
		_ = meta.Close()
		_ = hash.Close()
		_ = list.Close()
		_ = set.Close()
		return nil, err
	}

	return &Store{
		meta:     meta,
		hash:     hash,
		list:     list,
		set:      set,
		zset:     zset,
		versions: NewVersionGenerator(),
		locks:    NewLockManager(),
	}, nil
}

// Close closes every namespace engine. It attempts to close all five even
// if one fails, and returns the first error encountered.
func (s *Store) Close() error {
	var firstErr error
	for _, db := range []*engine.Database{s.meta, s.hash, s.list, s.set, s.zset} {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Flush deletes every key in every namespace. It backs FLUSHDB; the
// dispatcher broadcasts one Flush call per worker and aggregates the
// results (see internal/dispatch), so Flush itself is not concerned with
// cross-worker coordination.
func (s *Store) Flush() error {
	for _, db := range []*engine.Database{s.meta, s.hash, s.list, s.set, s.zset} {
		for _, key := range db.ListKeys() {
			if err := db.Delete(key); err != nil {
				return newEngineError(CodeDatabase, err)
			}
		}
	}
	return nil
}
