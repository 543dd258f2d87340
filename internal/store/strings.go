package store

import (
	"strconv"
)

// Set writes value under key unconditionally, replacing whatever was there
// before regardless of its prior type. expireMs is the absolute
// epoch-millisecond TTL deadline, or 0 for no TTL (SET itself never sets
// one; EXPIRE does).
func (s *Store) Set(key, value []byte, expireMs uint64) error {
	return s.putStringValue(key, value, expireMs)
}

// Get returns key's string value. ok is false if key is absent, lazily
// expired, or was never a string (ErrWrongType in that last case).
func (s *Store) Get(key []byte) (value []byte, ok bool, err error) {
	return s.lookupStringValue(key)
}

// Append appends suffix to key's existing string value (treating an absent
// key as empty), preserving whatever TTL was already set, and returns the
// length of the resulting value.
func (s *Store) Append(key, suffix []byte) (int, error) {
	existing, expireMs, ok, err := s.lookupStringValue(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		existing, expireMs = nil, 0
	}

	next := make([]byte, 0, len(existing)+len(suffix))
	next = append(next, existing...)
	next = append(next, suffix...)

	if err := s.putStringValue(key, next, expireMs); err != nil {
		return 0, err
	}
	return len(next), nil
}

// incrBy reads key's value as a signed 64-bit integer (treating an absent
// key as 0), adds delta, checking for overflow, and writes the result back
// preserving TTL.
func (s *Store) incrBy(key []byte, delta int64) (int64, error) {
	existing, expireMs, ok, err := s.lookupStringValue(key)
	if err != nil {
		return 0, err
	}

	var current int64
	if ok {
		current, err = strconv.ParseInt(string(existing), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
	}

	next := current + delta
	if (delta > 0 && next < current) || (delta < 0 && next > current) {
		return 0, ErrNotInteger
	}

	if err := s.putStringValue(key, []byte(strconv.FormatInt(next, 10)), expireMs); err != nil {
		return 0, err
	}
	return next, nil
}

// Incr increments key's integer value by 1.
func (s *Store) Incr(key []byte) (int64, error) {
	return s.incrBy(key, 1)
}

// Decr decrements key's integer value by 1.
func (s *Store) Decr(key []byte) (int64, error) {
	return s.incrBy(key, -1)
}
