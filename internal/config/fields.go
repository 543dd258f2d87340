package config

import (
	"strconv"
	"strings"
)

// field describes one schema entry for the CONFIG command: how to read it
// out of a Config snapshot and, if mutable, how to parse and write a new
// value into one.
type field struct {
	name    string
	mutable bool
	// describe renders the current value, or ok=false if it can't be
	// stringified (Open Question 4 — none of the current fields hit this,
	// but CONFIG GET's reply construction already handles it).
	describe func(Config) (string, bool)
	set      func(*Config, string) error
}

var fieldOrder = []field{
	{name: "host", describe: func(c Config) (string, bool) { return c.Host, true }},
	{name: "port", describe: func(c Config) (string, bool) { return strconv.Itoa(int(c.Port)), true }},
	{name: "data_path", describe: func(c Config) (string, bool) { return c.DataPath, true }},
	{name: "save", describe: func(c Config) (string, bool) { return c.Save, true }},
	{name: "appendonly", describe: func(c Config) (string, bool) { return c.AppendOnly, true }},
	{
		name:     "log_level",
		mutable:  true,
		describe: func(c Config) (string, bool) { return c.LogLevel, true },
		set: func(c *Config, v string) error {
			c.LogLevel = v
			return nil
		},
	},
	{name: "worker_threads", describe: func(c Config) (string, bool) { return strconv.Itoa(c.WorkerThreads), true }},
}

func lookupField(name string) (field, bool) {
	name = strings.ToLower(name)
	for _, f := range fieldOrder {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// matchGlob reports whether name matches pattern, supporting the four forms
// §6.3 names: `*` (everything), `prefix*`, `*suffix`, `*contains*`, and a
// plain exact match.
func matchGlob(pattern, name string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	default:
		return pattern == name
	}
}

// Get returns every field whose name matches pattern, as (name, value)
// pairs in schema order. A field whose value can't be stringified is
// omitted from the result (Open Question 4).
func (c *Cell) Get(pattern string) [][2]string {
	cfg := c.ptr.Load()
	var out [][2]string
	for _, f := range fieldOrder {
		if !matchGlob(pattern, f.name) {
			continue
		}
		v, ok := f.describe(*cfg)
		if !ok {
			continue
		}
		out = append(out, [2]string{f.name, v})
	}
	return out
}

// Set validates name against mutability, parses value, and publishes a new
// configuration snapshot, firing any registered callback.
func (c *Cell) Set(name, value string) error {
	f, ok := lookupField(name)
	if !ok {
		return &unknownFieldError{name: name}
	}
	if !f.mutable {
		return &immutableFieldError{name: name}
	}
	next := c.Snapshot()
	if err := f.set(&next, value); err != nil {
		return err
	}
	c.publish(next)
	return nil
}

type unknownFieldError struct{ name string }

func (e *unknownFieldError) Error() string {
	return "ERR Unknown option '" + e.name + "'"
}

type immutableFieldError struct{ name string }

func (e *immutableFieldError) Error() string {
	return "ERR CONFIG SET failed - not possible to set immutable parameter '" + e.name + "'"
}
