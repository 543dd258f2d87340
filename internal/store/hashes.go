package store

import (
	"errors"

	"github.com/quiverdb/quiverdb/internal/engine"
	"github.com/quiverdb/quiverdb/internal/keyspace"
)

// HSet writes each (fields[i], values[i]) pair into the hash at key,
// creating the hash's metadata if absent or lazily expired. Returns the
// number of fields that were new (as opposed to overwritten).
func (s *Store) HSet(key []byte, fields, values [][]byte) (int64, error) {
	meta, err := s.findOrCreateMeta(key, keyspace.KindHash)
	if err != nil {
		return 0, err
	}

	wb := s.hash.NewWriteBatch(nonDurableBatch())
	seen := make(map[string]struct{}, len(fields))
	var added int64
	for i := range fields {
		fk, err := keyspace.HashFieldKey(key, meta.Version, fields[i])
		if err != nil {
			return 0, err
		}

		if _, dup := seen[string(fk)]; !dup {
			seen[string(fk)] = struct{}{}
			_, getErr := s.hash.Get(fk)
			switch {
			case errors.Is(getErr, engine.ErrKeyNotFound):
				added++
				meta.Len++
			case getErr != nil:
				return 0, newEngineError(CodeDatabase, getErr)
			}
		}

		if err := wb.Put(fk, values[i]); err != nil {
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

// HGet reads one field of the hash at key.
func (s *Store) HGet(key, field []byte) ([]byte, bool, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindHash)
	if err != nil || !ok {
		return nil, false, err
	}

	fk, err := keyspace.HashFieldKey(key, meta.Version, field)
	if err != nil {
		return nil, false, err
	}
	value, err := s.hash.Get(fk)
	if errors.Is(err, engine.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, newEngineError(CodeDatabase, err)
	}
	return value, true, nil
}

// HLen returns the number of fields in the hash at key.
func (s *Store) HLen(key []byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindHash)
	if err != nil || !ok {
		return 0, err
	}
	return int64(meta.Len), nil
}

// HMGet reads several fields of the hash at key in one call. Entries for
// fields that are absent come back with ok=false.
func (s *Store) HMGet(key []byte, fields [][]byte) (values [][]byte, found []bool, err error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindHash)
	if err != nil {
		return nil, nil, err
	}
	values = make([][]byte, len(fields))
	found = make([]bool, len(fields))
	if !ok {
		return values, found, nil
	}

	for i, field := range fields {
		fk, err := keyspace.HashFieldKey(key, meta.Version, field)
		if err != nil {
			return nil, nil, err
		}
		v, getErr := s.hash.Get(fk)
		if errors.Is(getErr, engine.ErrKeyNotFound) {
			continue
		}
		if getErr != nil {
			return nil, nil, newEngineError(CodeDatabase, getErr)
		}
		values[i] = v
		found[i] = true
	}
	return values, found, nil
}

// HGetAll scans every field of the hash at key.
func (s *Store) HGetAll(key []byte) (fields, values [][]byte, err error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindHash)
	if err != nil || !ok {
		return nil, nil, err
	}

	prefix, err := keyspace.CollectionPrefix(key, meta.Version)
	if err != nil {
		return nil, nil, err
	}

	it := s.hash.NewIterator(engine.IteratorOptions{Prefix: prefix})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		_, _, field, err := keyspace.DecodeHashFieldKey(it.Key())
		if err != nil {
			return nil, nil, newEngineError(CodeDecode, err)
		}
		value, err := it.Value()
		if err != nil {
			return nil, nil, newEngineError(CodeDatabase, err)
		}
		fields = append(fields, field)
		values = append(values, value)
	}
	return fields, values, nil
}

// HDel removes the given fields from the hash at key, returning how many
// were actually present. If the hash becomes empty, its metadata is
// deleted.
func (s *Store) HDel(key []byte, fields [][]byte) (int64, error) {
	meta, ok, err := s.lookupMeta(key, keyspace.KindHash)
	if err != nil || !ok {
		return 0, err
	}

	wb := s.hash.NewWriteBatch(nonDurableBatch())
	var removed int64
	for _, field := range fields {
		fk, err := keyspace.HashFieldKey(key, meta.Version, field)
		if err != nil {
			return 0, err
		}
		_, getErr := s.hash.Get(fk)
		if errors.Is(getErr, engine.ErrKeyNotFound) {
			continue
		}
		if getErr != nil {
			return 0, newEngineError(CodeDatabase, getErr)
		}
		if err := wb.Delete(fk); err != nil {
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
