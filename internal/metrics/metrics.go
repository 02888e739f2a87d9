// Package metrics provides the Recorder interface used by the codec service
// and the webhook inbox, with a noop and an in-process counting recorder.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Recorder is the interface for recording operational metrics.
type Recorder interface {
	RecordDecode(record, field string)
	RecordError(record, op string)
	RecordLatency(record, op string, d time.Duration)
	RecordDuplicate(kind string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordDecode(record, field string)                {}
func (Noop) RecordError(record, op string)                    {}
func (Noop) RecordLatency(record, op string, d time.Duration) {}
func (Noop) RecordDuplicate(kind string)                      {}

// Counter counts events per label in memory. The zero value is ready to use
// and safe for concurrent use.
type Counter struct {
	counts sync.Map // string -> *atomic.Int64
}

func (c *Counter) add(label string) {
	v, _ := c.counts.LoadOrStore(label, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

// RecordDecode counts a decoded codec field under "decode:<record>.<field>".
func (c *Counter) RecordDecode(record, field string) { c.add("decode:" + record + "." + field) }

// RecordError counts a failure under "error:<record>:<op>".
func (c *Counter) RecordError(record, op string) { c.add("error:" + record + ":" + op) }

// RecordLatency counts an operation under "op:<record>:<op>".
func (c *Counter) RecordLatency(record, op string, _ time.Duration) {
	c.add("op:" + record + ":" + op)
}

// RecordDuplicate counts a repeated webhook under "duplicate:<kind>".
func (c *Counter) RecordDuplicate(kind string) { c.add("duplicate:" + kind) }

// Get returns the count recorded for label.
func (c *Counter) Get(label string) int64 {
	v, ok := c.counts.Load(label)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// Snapshot returns a copy of every non-zero count.
func (c *Counter) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	c.counts.Range(func(k, v any) bool {
		out[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return out
}
