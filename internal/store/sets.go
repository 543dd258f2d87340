package store

import (
	"errors"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// SAdd adds members to the set at key, creating its metadata if absent or
// lazily expired. Returns how many members were newly added.
func (s *Store) SAdd(key []byte, members [][]byte) (int64, error) {
	meta, err := s.findOrCreateMeta(key, keyspace.KindSet)
	if err != nil {
		return 0, err
	}

	wb := s.set.NewWriteBatch(nonDurableBatch())
	seen := make(map[string]struct{}, len(members))
	var added int64
	for _, member := range members {
		mk, err := keyspace.SetMemberKey(key, meta.Version, member)
		if err != nil {
			return 0, err
		}
		if _, dup := seen[string(mk)]; dup {
			continue
		}
		_, getErr := s.set.Get(mk)
		if errors.Is(getErr, engine.ErrKeyNotFound) {
			seen[string(mk)] = struct{}{}
			added++
			meta.Len++
			if err := wb.Put(mk, nil); err != nil {
				return 0, newEngineError(CodeDatabase, err)
			}
		} else if getErr != nil {
			return 0, newEngineError(CodeDatabase, getErr)
		} else {
			seen[string(mk)] = struct{}{}
		}
	}

	if added == 0 {
		return 0, nil
	}
	if err := wb.Commit(); err != nil {
		return 0, newEngineError(CodeDatabase, err)
	}
	if err := s.putMeta(key, meta); err != nil {
		return 0, err
	}
	return added, nil
}

// SIsMember reports whether member belongs to the set at key.
func (s *Store) SIsMember(key, member []byte) (bool, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindSet)
	if err != nil || !ok {
		return false, err
	}

	mk, err := keyspace.SetMemberKey(key, meta.Version, member)
	if err != nil {
		return false, err
	}
	_, err = s.set.Get(mk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, newEngineError(CodeDatabase, err)
	}
	return true, nil
}

// SMembers returns every member of the set at key.
func (s *Store) SMembers(key []byte) ([][]byte, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindSet)
	if err != nil || !ok {
		return nil, err
	}

	prefix, err := keyspace.CollectionPrefix(key, meta.Version)
	if err != nil {
		return nil, err
	}

	it := s.set.NewIterator(engine.IteratorOptions{Prefix: prefix})
	defer it.Close()
	var members [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		_, _, member, err := keyspace.DecodeSetMemberKey(it.Key())
		if err != nil {
			return nil, newEngineError(CodeDecode, err)
		}
		members = append(members, member)
	}
	return members, nil
}

// SCard returns the number of members in the set at key.
func (s *Store) SCard(key []byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindSet)
	if err != nil || !ok {
		return 0, err
	}
	return int64(meta.Len), nil
}

// SRem removes members from the set at key, returning how many were
// actually present. If the set becomes empty, its metadata is deleted.
func (s *Store) SRem(key []byte, members [][]byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindSet)
	if err != nil || !ok {
		return 0, err
	}

	wb := s.set.NewWriteBatch(nonDurableBatch())
	var removed int64
	for _, member := range members {
		mk, err := keyspace.SetMemberKey(key, meta.Version, member)
		if err != nil {
			return 0, err
		}
		_, getErr := s.set.Get(mk)
		if errors.Is(getErr, engine.ErrKeyNotFound) {
			continue
		}
		if getErr != nil {
			return 0, newEngineError(CodeDatabase, getErr)
		}
		if err := wb.Delete(mk); err != nil {
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
