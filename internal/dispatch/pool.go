// Package dispatch routes parsed commands to shard workers by FNV-1a hash
// of the command's first argument (§4.4), pinning all operations on a given
// key to one worker so per-key ordering holds without fine-grained locking.
// FLUSHDB (and any future whole-keyspace command) broadcasts to every
// worker and aggregates their replies into one ordered response slot.
package dispatch

import (
	"hash/fnv"
	"strings"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/resp"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

// Pool is the fixed set of N shard workers built at startup.
type Pool struct {
	workers []*worker
}

// NewPool starts n shard workers sharing s and t.
func NewPool(n int, s *store.Store, t *command.Table, log *telemetry.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{workers: make([]*worker, n)}
	for i := range p.workers {
		p.workers[i] = newWorker(i, s, t, log.Named("worker"))
	}
	return p
}

// Shutdown closes every worker's mailbox; in-flight requests already
// enqueued still drain before each worker goroutine exits.
func (p *Pool) Shutdown() {
	for _, w := range p.workers {
		w.stop()
	}
}

// routeIndex computes the §4.4.2 FNV-1a shard index for key.
func (p *Pool) routeIndex(key []byte) int {
	h := fnv.New64a()
	h.Write(key)
	return int(h.Sum64() % uint64(len(p.workers)))
}

// firstArg returns args[0], or an empty key if args is empty — commands
// whose first argument is absent route to the empty-string shard, per
// §4.4.2.
func firstArg(args [][]byte) []byte {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// Submit routes a single command to the worker owning its first argument
// and returns a channel the caller receives its one reply from.
func (p *Pool) Submit(name string, args [][]byte) <-chan resp.Value {
	ch := make(chan resp.Value, 1)
	idx := p.routeIndex(firstArg(args))
	p.workers[idx].mailbox.send(request{name: name, args: args, resp: ch})
	return ch
}

// Broadcast enqueues the same command to every worker and returns a channel
// that yields a single aggregated reply: OK if every worker replied OK,
// otherwise the first non-OK reply observed (§4.4.3: the aggregated future
// occupies one normal ordered-response slot).
func (p *Pool) Broadcast(name string, args [][]byte) <-chan resp.Value {
	final := make(chan resp.Value, 1)
	perWorker := make([]chan resp.Value, len(p.workers))
	for i, w := range p.workers {
		ch := make(chan resp.Value, 1)
		perWorker[i] = ch
		w.mailbox.send(request{name: name, args: args, resp: ch})
	}

	go func() {
		var failed resp.Value
		ok := true
		for _, ch := range perWorker {
			v := <-ch
			if ok && (v.IsError() || !isSimpleOK(v)) {
				ok = false
				failed = v
			}
		}
		if ok {
			final <- resp.SimpleStringf("OK")
		} else {
			final <- failed
		}
	}()

	return final
}

func isSimpleOK(v resp.Value) bool {
	s, ok := v.AsString()
	return ok && strings.EqualFold(s, "OK")
}

// Dispatch routes name/args through Submit or Broadcast depending on
// whether the command is a whole-keyspace admin command.
func (p *Pool) Dispatch(name string, args [][]byte) <-chan resp.Value {
	if strings.EqualFold(name, "FLUSHDB") {
		return p.Broadcast(name, args)
	}
	return p.Submit(name, args)
}
