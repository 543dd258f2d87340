package dispatch

import "sync"

// mailbox is the unbounded single-consumer queue backing one shard worker
// (§4.4.1: "each worker owns an unbounded inbound mailbox"). Go channels are
// bounded by construction, so the queue is a plain slice guarded by a mutex
// and condition variable instead of a buffered channel — Send never blocks
// the caller, matching the "mpsc unbounded" semantics of the original.
type mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []request
	closed bool
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// send appends req to the queue and wakes the worker. Never blocks.
func (m *mailbox) send(req request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.items = append(m.items, req)
	m.cond.Signal()
}

// recv blocks until a request is available or the mailbox is closed, in
// which case ok is false.
func (m *mailbox) recv() (req request, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.items) == 0 && !m.closed {
		m.cond.Wait()
	}
	if len(m.items) == 0 {
		return request{}, false
	}
	req = m.items[0]
	m.items = m.items[1:]
	return req, true
}

// close wakes the worker goroutine for the last time so it can exit.
func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
}
