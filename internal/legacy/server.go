/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package legacy is the deprecated one-shot RESP server: a redcon listener
// that executes each inbound command to completion before reading the next
// one, rather than the streaming pipeline internal/server implements. It is
// superseded by internal/server and kept only for compatibility with
// clients that still dial the old port; it accepts a small fixed command
// set rather than the full table, the same restriction the demo server it
// is descended from had.
package legacy

import (
	"strings"

	"github.com/tidwall/redcon"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

// supportedCommands is the small set the legacy listener answers; anything
// else gets an "unsupported command" error rather than being routed
// through the full table.
var supportedCommands = map[string]struct{}{
	"PING": {}, "SET": {}, "GET": {}, "HSET": {}, "SADD": {}, "LPUSH": {}, "ZADD": {},
}

// Server is the redcon-backed legacy listener.
type Server struct {
	addr  string
	store *store.Store
	table *command.Table
	log   *telemetry.Logger
	rs    *redcon.Server
}

// New builds a legacy Server bound to addr, executing commands against s
// through t.
func New(addr string, s *store.Store, t *command.Table, log *telemetry.Logger) *Server {
	srv := &Server{addr: addr, store: s, table: t, log: log}
	srv.rs = redcon.NewServer(addr, srv.handle, srv.accept, srv.closed)
	return srv
}

// ListenAndServe blocks accepting legacy connections until the listener is
// closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("legacy redcon server listening", "addr", s.addr)
	return s.rs.ListenAndServe()
}

// Close stops the legacy listener.
func (s *Server) Close() error {
	return s.rs.Close()
}

func (s *Server) accept(conn redcon.Conn) bool { return true }

func (s *Server) closed(conn redcon.Conn, err error) {
	if err != nil {
		s.log.Debug("legacy connection closed", "remote", conn.RemoteAddr(), "err", err)
	}
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) == 0 {
		return
	}
	name := strings.ToUpper(string(cmd.Args[0]))
	if name == "QUIT" {
		conn.WriteString("OK")
		_ = conn.Close()
		return
	}
	if _, ok := supportedCommands[name]; !ok {
		conn.WriteError("ERR unsupported command in legacy mode: '" + strings.ToLower(name) + "'")
		return
	}

	result := s.table.Execute(s.store, name, cmd.Args[1:])
	writeValue(conn, result)
}
