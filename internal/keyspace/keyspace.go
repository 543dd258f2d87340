// Package keyspace implements the composite-key schema shared by every
// namespace: the MetaKey/AnyValue registry kept in the string namespace, and
// the per-type SubKey layouts used by the hash/list/set/zset namespaces.
//
// All multibyte integers embedded in keys are big-endian so that
// lexicographic byte order matches numeric order; this is what lets
// prefix scans double as range scans.
package keyspace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Kind is the type tag occupying the first byte of every AnyValue and every
// collection SubKey's metadata reference.
type Kind byte

const (
	KindString Kind = 's'
	KindHash   Kind = 'h'
	KindList   Kind = 'l'
	KindSet    Kind = 'S'
	KindZSet   Kind = 'z'
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindHash:
		return "hash"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindZSet:
		return "zset"
	default:
		return fmt.Sprintf("unknown(%q)", byte(k))
	}
}

// ErrKeyTooLong is returned when a user key exceeds the u16 length prefix
// the MetaKey/SubKey schema budgets for it.
var ErrKeyTooLong = errors.New("keyspace: user key exceeds 65535 bytes")

// ErrFieldTooLong is the u32-length-prefix analogue of ErrKeyTooLong for
// hash fields and set members.
var ErrFieldTooLong = errors.New("keyspace: field or member exceeds 4GiB")

// ErrMalformedKey is returned when decoding a key or metadata record whose
// length does not match its declared layout.
var ErrMalformedKey = errors.New("keyspace: malformed key or metadata record")

// MetaKey builds the authoritative-registry key for userKey: a u16
// big-endian length prefix followed by the raw key bytes.
func MetaKey(userKey []byte) ([]byte, error) {
	if len(userKey) > math.MaxUint16 {
		return nil, ErrKeyTooLong
	}
	buf := make([]byte, 2+len(userKey))
	binary.BigEndian.PutUint16(buf, uint16(len(userKey)))
	copy(buf[2:], userKey)
	return buf, nil
}

// DecodeMetaKey recovers the user key from a MetaKey.
func DecodeMetaKey(key []byte) ([]byte, error) {
	if len(key) < 2 {
		return nil, ErrMalformedKey
	}
	n := int(binary.BigEndian.Uint16(key))
	if len(key) != 2+n {
		return nil, ErrMalformedKey
	}
	return key[2:], nil
}
