package config

import "sync/atomic"

// Cell is the copy-on-write configuration cell spec §9 calls for: readers
// take a consistent snapshot via Get, writers clone-mutate-publish via Set.
// Safe for concurrent use without a mutex on the read path.
type Cell struct {
	ptr atomic.Pointer[Config]

	onLogLevelChange func(string)
}

// NewCell builds a Cell holding the initial configuration.
func NewCell(initial Config) *Cell {
	c := &Cell{}
	c.ptr.Store(&initial)
	return c
}

// Snapshot returns the current configuration.
func (c *Cell) Snapshot() Config {
	return *c.ptr.Load()
}

// OnLogLevelChange registers the callback invoked after a successful
// CONFIG SET log_level, the one mutable field with a live side effect
// (reloading the telemetry filter without a restart).
func (c *Cell) OnLogLevelChange(fn func(string)) {
	c.onLogLevelChange = fn
}

// publish atomically swaps in next and fires any relevant callback.
func (c *Cell) publish(next Config) {
	c.ptr.Store(&next)
	if c.onLogLevelChange != nil {
		c.onLogLevelChange(next.LogLevel)
	}
}
