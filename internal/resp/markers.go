package resp

// Type markers, RESP2.
const (
	markerSimpleString = '+'
	markerError        = '-'
	markerInteger      = ':'
	markerBulkString   = '$'
	markerArray        = '*'
)

// Type markers, RESP3.
const (
	markerNull           = '_'
	markerBoolean        = '#'
	markerDouble         = ','
	markerBigNumber      = '('
	markerBulkError      = '!'
	markerVerbatimString = '='
	markerMap            = '%'
	markerSet            = '~'
	markerPush           = '>'
)

const crlf = "\r\n"

// maxInlineCommandLen bounds a telnet-style inline command to guard against
// an unbounded line starving the parser while it waits for a CRLF.
const maxInlineCommandLen = 65536
