package resp

import (
	"math"
	"strconv"
)

// Encode renders v in RESP wire format.
func Encode(v Value) []byte {
	buf := make([]byte, 0, 64)
	return appendValue(buf, v)
}

// AppendEncode appends v's wire representation to buf and returns the
// extended slice, matching the append(dst, ...) idiom used elsewhere for
// buffer reuse across many replies on one connection.
func AppendEncode(buf []byte, v Value) []byte {
	return appendValue(buf, v)
}

func appendValue(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindSimpleString:
		return appendLine(buf, markerSimpleString, v.Str)
	case KindError:
		return appendLine(buf, markerError, v.Str)
	case KindInteger:
		return appendLine(buf, markerInteger, []byte(strconv.FormatInt(v.Int, 10)))
	case KindBulkString:
		return appendBulk(buf, markerBulkString, v.Str)
	case KindArray:
		buf = appendLengthMarker(buf, markerArray, len(v.Elems))
		for _, e := range v.Elems {
			buf = appendValue(buf, e)
		}
		return buf
	case KindNull:
		buf = append(buf, markerNull)
		return append(buf, crlf...)
	case KindBoolean:
		buf = append(buf, markerBoolean)
		if v.Bool {
			buf = append(buf, 't')
		} else {
			buf = append(buf, 'f')
		}
		return append(buf, crlf...)
	case KindDouble:
		return appendLine(buf, markerDouble, formatDouble(v.Double))
	case KindBigNumber:
		return appendLine(buf, markerBigNumber, v.Str)
	case KindBulkError:
		return appendBulk(buf, markerBulkError, v.Str)
	case KindVerbatimString:
		total := 4 + len(v.Str)
		buf = appendLengthMarker(buf, markerVerbatimString, total)
		buf = append(buf, v.Format...)
		buf = append(buf, ':')
		buf = append(buf, v.Str...)
		return append(buf, crlf...)
	case KindMap:
		buf = appendLengthMarker(buf, markerMap, len(v.Pairs))
		for _, pair := range v.Pairs {
			buf = appendValue(buf, pair.Key)
			buf = appendValue(buf, pair.Val)
		}
		return buf
	case KindSet:
		buf = appendLengthMarker(buf, markerSet, len(v.Elems))
		for _, e := range v.Elems {
			buf = appendValue(buf, e)
		}
		return buf
	case KindPush:
		buf = appendLengthMarker(buf, markerPush, len(v.Elems))
		for _, e := range v.Elems {
			buf = appendValue(buf, e)
		}
		return buf
	default:
		return buf
	}
}

func appendLine(buf []byte, marker byte, payload []byte) []byte {
	buf = append(buf, marker)
	buf = append(buf, payload...)
	return append(buf, crlf...)
}

func appendLengthMarker(buf []byte, marker byte, n int) []byte {
	buf = append(buf, marker)
	buf = append(buf, strconv.Itoa(n)...)
	return append(buf, crlf...)
}

func appendBulk(buf []byte, marker byte, payload []byte) []byte {
	buf = appendLengthMarker(buf, marker, len(payload))
	buf = append(buf, payload...)
	return append(buf, crlf...)
}

func formatDouble(d float64) []byte {
	switch {
	case math.IsInf(d, 1):
		return []byte("inf")
	case math.IsInf(d, -1):
		return []byte("-inf")
	default:
		return []byte(strconv.FormatFloat(d, 'g', -1, 64))
	}
}
