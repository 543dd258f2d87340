package dispatch

import (
	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

// request is one command handed to a shard worker: the parsed command plus
// a one-shot channel its result is delivered on.
type request struct {
	name string
	args [][]byte
	resp chan<- resp.Value
}

// worker is a single shard: a goroutine draining its mailbox strictly in
// order against the shared storage facade. Workers never block each other —
// they share no state but the read-shared store and command table.
type worker struct {
	idx     int
	mailbox *mailbox
	store   *store.Store
	table   *command.Table
	log     *telemetry.Logger
}

func newWorker(idx int, s *store.Store, t *command.Table, log *telemetry.Logger) *worker {
	w := &worker{idx: idx, mailbox: newMailbox(), store: s, table: t, log: log}
	go w.run()
	return w
}

func (w *worker) run() {
	for {
		req, ok := w.mailbox.recv()
		if !ok {
			return
		}
		result := w.table.Execute(w.store, req.name, req.args)
		req.resp <- result
	}
}

func (w *worker) stop() {
	w.mailbox.close()
}
