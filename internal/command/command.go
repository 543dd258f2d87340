// Package command implements the name-to-handler table: each supported
// command is a small struct declaring its name and arity, registered into a
// read-only table built once at startup. Arity validation happens generically
// in Table.Execute rather than being hand-duplicated in every handler.
package command

import (
	"errors"
	"strings"

	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// Handler is one command object. Arity counts the full request array
// including the command name itself: positive requires an exact match,
// negative requires at least abs(Arity), zero allows anything.
type Handler interface {
	Name() string
	Arity() int
	Execute(s *store.Store, args [][]byte) resp.Value
}

func validateArity(h Handler, totalArgs int) error {
	arity := h.Arity()
	switch {
	case arity > 0 && totalArgs != arity:
		return errWrongArity(h.Name())
	case arity < 0 && totalArgs < -arity:
		return errWrongArity(h.Name())
	}
	return nil
}

type arityError struct{ name string }

func (e *arityError) Error() string {
	return "ERR wrong number of arguments for '" + strings.ToLower(e.name) + "' command"
}

func errWrongArity(name string) error { return &arityError{name: name} }

// Table is the read-only command registry, built once at startup and shared
// across every worker goroutine.
type Table struct {
	handlers map[string]Handler
}

// NewTable builds the table of every supported command (§6.1).
func NewTable() *Table {
	t := &Table{handlers: make(map[string]Handler)}
	for _, h := range []Handler{
		pingCmd{},
		setCmd{}, getCmd{}, appendCmd{}, incrCmd{}, decrCmd{},
		existsCmd{}, delCmd{}, expireCmd{}, ttlCmd{},
		hsetCmd{}, hgetCmd{}, hlenCmd{}, hmgetCmd{}, hgetallCmd{}, hdelCmd{},
		lpushCmd{}, rpushCmd{}, lpopCmd{}, rpopCmd{}, llenCmd{}, lrangeCmd{},
		saddCmd{}, sremCmd{}, sismemberCmd{}, smembersCmd{}, scardCmd{},
		zaddCmd{}, zremCmd{}, zscoreCmd{}, zrangeCmd{}, zcardCmd{},
		flushdbCmd{},
	} {
		t.handlers[h.Name()] = h
	}
	return t
}

// Register adds or replaces a handler, keyed by its declared Name. Used by
// internal/config to fold the CONFIG GET/SET group into the same table
// without this package depending on internal/config.
func (t *Table) Register(h Handler) {
	t.handlers[h.Name()] = h
}

// Lookup returns the handler for an upper-cased command name.
func (t *Table) Lookup(name string) (Handler, bool) {
	h, ok := t.handlers[strings.ToUpper(name)]
	return h, ok
}

// Execute validates arity and runs the named command. args excludes the
// command name itself; name is matched case-insensitively per RESP
// convention.
func (t *Table) Execute(s *store.Store, name string, args [][]byte) resp.Value {
	h, ok := t.Lookup(name)
	if !ok {
		return resp.Errorf("ERR unknown command '" + name + "'")
	}
	if err := validateArity(h, len(args)+1); err != nil {
		return resp.Errorf(err.Error())
	}
	return h.Execute(s, args)
}

// mapStoreError translates a store-layer error into a wire reply. The
// sentinel errors (ErrWrongType, ErrNotInteger, ErrNotFloat) already carry
// their own Redis-style error code and are passed through unchanged;
// anything else (a wrapped store.EngineError) collapses to a generic -ERR —
// its Code is for the log, never the client.
func mapStoreError(err error) resp.Value {
	switch {
	case errors.Is(err, store.ErrWrongType), errors.Is(err, store.ErrNotInteger), errors.Is(err, store.ErrNotFloat):
		return resp.Errorf(err.Error())
	default:
		return resp.Errorf("ERR " + err.Error())
	}
}
