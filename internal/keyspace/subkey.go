package keyspace

import (
	"encoding/binary"
	"math"
)

// ZSet sub-key discriminators. A zset entry comes in two physical forms
// sharing one namespace: the member→score index ('M') and the
// score→member index ('S') used for ordered range scans.
const (
	zsetMemberTag byte = 'M'
	zsetScoreTag  byte = 'S'
)

// subKeyPrefix builds the common head of every SubKey: u16 len(user_key) ‖
// user_key ‖ u64 version. Every per-type key below appends its own
// discriminator and tail to this prefix.
func subKeyPrefix(userKey []byte, version uint64) ([]byte, error) {
	if len(userKey) > math.MaxUint16 {
		return nil, ErrKeyTooLong
	}
	buf := make([]byte, 2+len(userKey)+8)
	binary.BigEndian.PutUint16(buf, uint16(len(userKey)))
	copy(buf[2:], userKey)
	binary.BigEndian.PutUint64(buf[2+len(userKey):], version)
	return buf, nil
}

// decodeSubKeyPrefix splits off the user key and version shared by every
// SubKey form, returning the remaining type-specific tail.
func decodeSubKeyPrefix(key []byte) (userKey []byte, version uint64, tail []byte, err error) {
	if len(key) < 2 {
		return nil, 0, nil, ErrMalformedKey
	}
	n := int(binary.BigEndian.Uint16(key))
	if len(key) < 2+n+8 {
		return nil, 0, nil, ErrMalformedKey
	}
	userKey = key[2 : 2+n]
	version = binary.BigEndian.Uint64(key[2+n : 2+n+8])
	tail = key[2+n+8:]
	return userKey, version, tail, nil
}

// DecodeSubKeyVersion recovers just (userKey, version) from any SubKey
// form (hash field, set member, list element, or either zset index),
// ignoring its type-specific tail. The compaction filter uses this to find
// a sub-key's owning MetaKey without needing to know which collection
// namespace it came from.
func DecodeSubKeyVersion(key []byte) (userKey []byte, version uint64, err error) {
	userKey, version, _, err = decodeSubKeyPrefix(key)
	return userKey, version, err
}

// CollectionPrefix returns the byte prefix shared by every live SubKey of
// (userKey, version) in a collection namespace: u16 len ‖ user_key ‖ u64
// version. Scans for HGETALL/SMEMBERS (and the plain member index of a
// zset) start here.
func CollectionPrefix(userKey []byte, version uint64) ([]byte, error) {
	return subKeyPrefix(userKey, version)
}

// ---- Hash ----

// HashFieldKey encodes a hash field's SubKey: prefix ‖ u32 len(field) ‖ field.
func HashFieldKey(userKey []byte, version uint64, field []byte) ([]byte, error) {
	if len(field) > math.MaxUint32 {
		return nil, ErrFieldTooLong
	}
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+4+len(field))
	copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[len(prefix):], uint32(len(field)))
	copy(buf[len(prefix)+4:], field)
	return buf, nil
}

// DecodeHashFieldKey recovers (userKey, version, field) from a hash SubKey.
func DecodeHashFieldKey(key []byte) (userKey []byte, version uint64, field []byte, err error) {
	userKey, version, tail, err := decodeSubKeyPrefix(key)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(tail) < 4 {
		return nil, 0, nil, ErrMalformedKey
	}
	n := int(binary.BigEndian.Uint32(tail))
	if len(tail) != 4+n {
		return nil, 0, nil, ErrMalformedKey
	}
	return userKey, version, tail[4:], nil
}

// ---- Set ----

// SetMemberKey encodes a set member's SubKey: prefix ‖ u32 len(member) ‖
// member. Its value is always empty; presence is the membership test.
func SetMemberKey(userKey []byte, version uint64, member []byte) ([]byte, error) {
	if len(member) > math.MaxUint32 {
		return nil, ErrFieldTooLong
	}
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+4+len(member))
	copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[len(prefix):], uint32(len(member)))
	copy(buf[len(prefix)+4:], member)
	return buf, nil
}

// DecodeSetMemberKey recovers (userKey, version, member) from a set SubKey.
func DecodeSetMemberKey(key []byte) (userKey []byte, version uint64, member []byte, err error) {
	userKey, version, tail, err := decodeSubKeyPrefix(key)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(tail) < 4 {
		return nil, 0, nil, ErrMalformedKey
	}
	n := int(binary.BigEndian.Uint32(tail))
	if len(tail) != 4+n {
		return nil, 0, nil, ErrMalformedKey
	}
	return userKey, version, tail[4:], nil
}

// ---- List ----

// ListElementKey encodes a list element's SubKey: prefix ‖ u64 seq. seq is
// a logically-signed index around ListOrigin; head <= seq < tail for every
// live element.
func ListElementKey(userKey []byte, version uint64, seq uint64) ([]byte, error) {
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[len(prefix):], seq)
	return buf, nil
}

// DecodeListElementKey recovers (userKey, version, seq) from a list SubKey.
func DecodeListElementKey(key []byte) (userKey []byte, version uint64, seq uint64, err error) {
	userKey, version, tail, err := decodeSubKeyPrefix(key)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(tail) != 8 {
		return nil, 0, 0, ErrMalformedKey
	}
	return userKey, version, binary.BigEndian.Uint64(tail), nil
}

// ---- ZSet ----

// ZSetMemberKey encodes a zset member→score index entry: prefix ‖ 'M' ‖
// u32 len(member) ‖ member. Its value is the order-preserving encoded
// score (see EncodeScore).
func ZSetMemberKey(userKey []byte, version uint64, member []byte) ([]byte, error) {
	if len(member) > math.MaxUint32 {
		return nil, ErrFieldTooLong
	}
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+1+4+len(member))
	off := copy(buf, prefix)
	buf[off] = zsetMemberTag
	off++
	binary.BigEndian.PutUint32(buf[off:], uint32(len(member)))
	off += 4
	copy(buf[off:], member)
	return buf, nil
}

// DecodeZSetMemberKey recovers (userKey, version, member) from a zset
// member-index SubKey. It returns ErrMalformedKey if the discriminator
// byte is not 'M' (e.g. it was actually a score-index key).
func DecodeZSetMemberKey(key []byte) (userKey []byte, version uint64, member []byte, err error) {
	userKey, version, tail, err := decodeSubKeyPrefix(key)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(tail) < 5 || tail[0] != zsetMemberTag {
		return nil, 0, nil, ErrMalformedKey
	}
	n := int(binary.BigEndian.Uint32(tail[1:5]))
	if len(tail) != 5+n {
		return nil, 0, nil, ErrMalformedKey
	}
	return userKey, version, tail[5:], nil
}

// ZSetScoreKey encodes a zset score→member index entry: prefix ‖ 'S' ‖ u64
// encoded_score ‖ member. Its value is always empty; the key itself is the
// ordered index. encodedScore must come from EncodeScore so that byte
// order on this key matches numeric score order.
func ZSetScoreKey(userKey []byte, version uint64, encodedScore uint64, member []byte) ([]byte, error) {
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+1+8+len(member))
	off := copy(buf, prefix)
	buf[off] = zsetScoreTag
	off++
	binary.BigEndian.PutUint64(buf[off:], encodedScore)
	off += 8
	copy(buf[off:], member)
	return buf, nil
}

// DecodeZSetScoreKey recovers (userKey, version, encodedScore, member)
// from a zset score-index SubKey.
func DecodeZSetScoreKey(key []byte) (userKey []byte, version uint64, encodedScore uint64, member []byte, err error) {
	userKey, version, tail, err := decodeSubKeyPrefix(key)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	if len(tail) < 9 || tail[0] != zsetScoreTag {
		return nil, 0, 0, nil, ErrMalformedKey
	}
	return userKey, version, binary.BigEndian.Uint64(tail[1:9]), tail[9:], nil
}

// ZSetScorePrefix returns the prefix identifying the score-index region of
// (userKey, version), for an ordered full-range scan of ZRANGE.
func ZSetScorePrefix(userKey []byte, version uint64) ([]byte, error) {
	prefix, err := subKeyPrefix(userKey, version)
	if err != nil {
		return nil, err
	}
	return append(prefix, zsetScoreTag), nil
}
