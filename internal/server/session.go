// Package server drives the per-connection RESP session loop: read bytes,
// feed the streaming parser, hand parsed commands to the dispatcher, and
// write replies back in the order the commands were parsed (§4.4.3).
package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/quiverdb/quiverdb/internal/dispatch"
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

const readChunkSize = 4096

// Session owns one client connection end to end. It holds no storage state
// itself — every command goes through pool, which already owns the store.
type Session struct {
	conn net.Conn
	pool *dispatch.Pool
	log  *telemetry.Logger
}

// New returns a Session ready to Serve conn.
func New(conn net.Conn, pool *dispatch.Pool, log *telemetry.Logger) *Session {
	return &Session{conn: conn, pool: pool, log: log}
}

// Serve runs the read/parse/dispatch/await/write loop until the connection
// closes or a fatal protocol/I/O error occurs. It always closes conn before
// returning.
func (s *Session) Serve() {
	defer s.conn.Close()

	parser := resp.NewParser()
	buf := make([]byte, readChunkSize)

	for {
		n, readErr := s.conn.Read(buf)
		if n > 0 {
			parser.Feed(buf[:n])
			if err := s.drain(parser); err != nil {
				s.logTermination(err)
				return
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				s.logTermination(readErr)
			}
			return
		}
	}
}

// drain parses every command currently buffered, dispatches each one as
// soon as it is parsed, and only then awaits the replies — strictly in
// parse order — writing each one back as it arrives. Dispatching up front
// lets commands destined for different workers run concurrently while the
// socket still observes Redis's total per-connection ordering guarantee.
func (s *Session) drain(parser *resp.Parser) error {
	var pending []<-chan resp.Value

	for {
		val, err := parser.Parse()
		if err == resp.ErrIncomplete {
			break
		}
		if err != nil {
			s.write(resp.Errorf("ERR Protocol error: " + err.Error()))
			return err
		}

		name, args, err := commandParts(val)
		if err != nil {
			s.write(resp.Errorf("ERR Protocol error: " + err.Error()))
			return err
		}
		pending = append(pending, s.pool.Dispatch(name, args))
	}

	for _, ch := range pending {
		if err := s.write(<-ch); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) write(v resp.Value) error {
	_, err := s.conn.Write(resp.Encode(v))
	return err
}

// logTermination treats a reset connection as a clean close (§4.4.5,
// §5 propagation policy); anything else is logged at debug level so a busy
// server doesn't flood its logs over routine client disconnects.
func (s *Session) logTermination(err error) {
	if isConnReset(err) {
		return
	}
	s.log.Debug("session terminated", "remote", s.conn.RemoteAddr(), "err", err)
}

func isConnReset(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset by peer")
}

// commandParts converts a parsed top-level value into a command name and
// argument list the dispatcher understands. A command must arrive as an
// array (or RESP3 push) of bulk-string-like elements, non-empty, its first
// element the command name.
func commandParts(v resp.Value) (string, [][]byte, error) {
	elems, ok := v.AsElements()
	if !ok {
		return "", nil, errNotArray
	}
	if len(elems) == 0 {
		return "", nil, errEmptyCommand
	}

	name, ok := elems[0].AsString()
	if !ok {
		return "", nil, errInvalidArgument
	}

	args := make([][]byte, len(elems)-1)
	for i, e := range elems[1:] {
		b, ok := e.AsBytes()
		if !ok {
			return "", nil, errInvalidArgument
		}
		args[i] = b
	}
	return strings.ToUpper(name), args, nil
}
