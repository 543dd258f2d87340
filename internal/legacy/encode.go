package legacy

import (
	"strconv"

	"github.com/tidwall/redcon"

	"github.com/quiverdb/quiverdb/internal/resp"
)

// writeValue renders a resp.Value through redcon's connection writer. The
// streaming codec in internal/resp only ever produces values this listener
// also needs to emit, so this is a direct kind-by-kind translation rather
// than a shared codec between the two servers.
func writeValue(conn redcon.Conn, v resp.Value) {
	switch v.Kind {
	case resp.KindSimpleString:
		conn.WriteString(string(v.Str))
	case resp.KindError, resp.KindBulkError:
		conn.WriteError(string(v.Str))
	case resp.KindInteger:
		conn.WriteInt64(v.Int)
	case resp.KindBulkString, resp.KindBigNumber:
		conn.WriteBulk(v.Str)
	case resp.KindNull:
		conn.WriteNull()
	case resp.KindBoolean:
		if v.Bool {
			conn.WriteInt(1)
		} else {
			conn.WriteInt(0)
		}
	case resp.KindDouble:
		conn.WriteBulkString(strconv.FormatFloat(v.Double, 'g', -1, 64))
	case resp.KindArray, resp.KindSet, resp.KindPush:
		conn.WriteArray(len(v.Elems))
		for _, e := range v.Elems {
			writeValue(conn, e)
		}
	case resp.KindMap:
		conn.WriteArray(len(v.Pairs) * 2)
		for _, p := range v.Pairs {
			writeValue(conn, p.Key)
			writeValue(conn, p.Val)
		}
	default:
		conn.WriteNull()
	}
}
