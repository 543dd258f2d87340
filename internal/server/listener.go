package server

import (
	"net"

	"github.com/quiverdb/quiverdb/internal/dispatch"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

// Listener accepts TCP connections and spawns a Session goroutine for each,
// mirroring the teacher's accept-loop shape while replacing its redcon
// per-connection dispatch with the streaming session loop.
type Listener struct {
	ln   net.Listener
	pool *dispatch.Pool
	log  *telemetry.Logger
}

// Listen binds addr and returns a Listener ready to Serve. The caller owns
// the returned Listener and must Close it to stop accepting.
func Listen(addr string, pool *dispatch.Pool, log *telemetry.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, pool: pool, log: log}, nil
}

// Addr returns the bound address, useful when addr was given with a
// ":0" port for tests.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections in a loop until Close is called, spawning one
// goroutine per connection. It returns once the listener is closed.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		l.log.Debug("client connected", "remote", conn.RemoteAddr())
		go New(conn, l.pool, l.log.Named("session")).Serve()
	}
}

// Close stops accepting new connections; in-flight sessions run to
// completion on their own.
func (l *Listener) Close() error {
	return l.ln.Close()
}
