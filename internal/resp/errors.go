package resp

import (
	"errors"
	"fmt"
)

// ErrIncomplete signals that the buffer does not yet hold a full value.
// Callers should keep reading from the connection and retry Parse once more
// bytes have arrived; it is never returned to a client.
var ErrIncomplete = errors.New("resp: incomplete value")

// ProtocolError wraps a malformed-input condition severe enough that the
// connection must be closed rather than answered with an error reply.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string { return "resp: " + e.msg }

func newProtocolError(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}

func errInvalidTypeMarker(c byte) error {
	return newProtocolError("invalid type marker: %q", c)
}

func errInvalidFormat(format string, args ...interface{}) error {
	return newProtocolError("invalid format: "+format, args...)
}

func errInvalidInteger(reason string) error {
	return newProtocolError("invalid integer: %s", reason)
}

func errInvalidBulkLength(n int64) error {
	return newProtocolError("invalid bulk string length: %d", n)
}

func errInvalidArrayLength(n int64) error {
	return newProtocolError("invalid array length: %d", n)
}

func errInvalidDouble(reason string) error {
	return newProtocolError("invalid double: %s", reason)
}
