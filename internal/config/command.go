package config

import (
	"strings"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
)

// ConfigHandler implements command.Handler for CONFIG GET/SET, closing over
// the cell it reads and writes. Built separately from command.NewTable and
// folded in with Table.Register, since internal/command must not depend on
// internal/config (the dependency runs the other way).
type ConfigHandler struct {
	cell *Cell
}

// NewConfigHandler returns the CONFIG command bound to cell.
func NewConfigHandler(cell *Cell) *ConfigHandler {
	return &ConfigHandler{cell: cell}
}

func (*ConfigHandler) Name() string { return "CONFIG" }
func (*ConfigHandler) Arity() int   { return -3 }

func (h *ConfigHandler) Execute(_ *store.Store, args [][]byte) resp.Value {
	switch strings.ToUpper(string(args[0])) {
	case "GET":
		if len(args) != 2 {
			return resp.Errorf("ERR wrong number of arguments for 'config|get' command")
		}
		pairs := h.cell.Get(string(args[1]))
		elems := make([]resp.Value, 0, 2*len(pairs))
		for _, p := range pairs {
			elems = append(elems, resp.BulkStringf(p[0]), resp.BulkStringf(p[1]))
		}
		return resp.Array(elems...)

	case "SET":
		if len(args) != 3 {
			return resp.Errorf("ERR wrong number of arguments for 'config|set' command")
		}
		if err := h.cell.Set(string(args[1]), string(args[2])); err != nil {
			return resp.Errorf(err.Error())
		}
		return resp.SimpleStringf("OK")

	default:
		return resp.Errorf("ERR Unknown CONFIG subcommand '" + string(args[0]) + "'")
	}
}

// RegisterInto folds the CONFIG handler into an already-built command table.
func (h *ConfigHandler) RegisterInto(t *command.Table) {
	t.Register(h)
}
