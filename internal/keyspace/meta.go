package keyspace

import "encoding/binary"

const (
	collectionMetaSize = 1 + 8 + 8 + 8    // type + version + len + expire_ms
	listMetaSize        = 1 + 8 + 8 + 8 + 8 + 8 // type + version + len + head + tail + expire_ms
)

// Meta is the decoded form of a collection's AnyValue record (everything
// except String, which is just its raw value behind a one-byte tag). Head
// and Tail are only meaningful when Kind == KindList.
type Meta struct {
	Kind     Kind
	Version  uint64
	Len      uint64
	Head     uint64
	Tail     uint64
	ExpireMs uint64
}

// ListOrigin is the head/tail value a freshly created list's metadata
// starts from: the midpoint of the uint64 range, leaving room for both
// LPUSH (decrementing head) and RPUSH (incrementing tail) without
// wrapping for any list a single process could build in memory.
const ListOrigin uint64 = 1 << 63

// EncodeMeta serializes a collection metadata record. It panics if Kind is
// not a collection kind (KindString has no Meta encoding — see
// EncodeStringValue).
func EncodeMeta(m Meta) []byte {
	switch m.Kind {
	case KindHash, KindSet, KindZSet:
		buf := make([]byte, collectionMetaSize)
		buf[0] = byte(m.Kind)
		binary.BigEndian.PutUint64(buf[1:9], m.Version)
		binary.BigEndian.PutUint64(buf[9:17], m.Len)
		binary.BigEndian.PutUint64(buf[17:25], m.ExpireMs)
		return buf
	case KindList:
		buf := make([]byte, listMetaSize)
		buf[0] = byte(m.Kind)
		binary.BigEndian.PutUint64(buf[1:9], m.Version)
		binary.BigEndian.PutUint64(buf[9:17], m.Len)
		binary.BigEndian.PutUint64(buf[17:25], m.Head)
		binary.BigEndian.PutUint64(buf[25:33], m.Tail)
		binary.BigEndian.PutUint64(buf[33:41], m.ExpireMs)
		return buf
	default:
		panic("keyspace: EncodeMeta called with a non-collection kind")
	}
}

// DecodeMeta parses a collection metadata record previously produced by
// EncodeMeta. The caller is expected to have already checked this MetaKey's
// value is not a String (i.e. its first byte is h/l/S/z).
func DecodeMeta(b []byte) (Meta, error) {
	if len(b) == 0 {
		return Meta{}, ErrMalformedKey
	}
	kind := Kind(b[0])
	switch kind {
	case KindHash, KindSet, KindZSet:
		if len(b) != collectionMetaSize {
			return Meta{}, ErrMalformedKey
		}
		return Meta{
			Kind:     kind,
			Version:  binary.BigEndian.Uint64(b[1:9]),
			Len:      binary.BigEndian.Uint64(b[9:17]),
			ExpireMs: binary.BigEndian.Uint64(b[17:25]),
		}, nil
	case KindList:
		if len(b) != listMetaSize {
			return Meta{}, ErrMalformedKey
		}
		return Meta{
			Kind:     kind,
			Version:  binary.BigEndian.Uint64(b[1:9]),
			Len:      binary.BigEndian.Uint64(b[9:17]),
			Head:     binary.BigEndian.Uint64(b[17:25]),
			Tail:     binary.BigEndian.Uint64(b[25:33]),
			ExpireMs: binary.BigEndian.Uint64(b[33:41]),
		}, nil
	default:
		return Meta{}, ErrMalformedKey
	}
}

// EncodeStringValue packs a String AnyValue record: type tag ‖ u64
// expire_ms ‖ raw payload. expire_ms is the absolute epoch-millisecond
// deadline, or 0 if the key carries no TTL. Unlike the collection kinds,
// String has no version or length field, but it does carry its own TTL
// here rather than relying on metadata shared with a sub-key namespace.
func EncodeStringValue(value []byte, expireMs uint64) []byte {
	buf := make([]byte, 1+8+len(value))
	buf[0] = byte(KindString)
	binary.BigEndian.PutUint64(buf[1:9], expireMs)
	copy(buf[9:], value)
	return buf
}

// DecodeStringValue splits a String AnyValue record into its raw payload
// and expire_ms deadline. It returns ErrMalformedKey if the leading byte is
// not the String tag or the record is shorter than the fixed header.
func DecodeStringValue(b []byte) (value []byte, expireMs uint64, err error) {
	if len(b) < 9 || Kind(b[0]) != KindString {
		return nil, 0, ErrMalformedKey
	}
	return b[9:], binary.BigEndian.Uint64(b[1:9]), nil
}

// PeekKind reads the type tag off a raw AnyValue without fully decoding it,
// for the common wrong-type check every operation performs first.
func PeekKind(b []byte) (Kind, error) {
	if len(b) == 0 {
		return 0, ErrMalformedKey
	}
	return Kind(b[0]), nil
}
