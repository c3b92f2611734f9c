package watcher

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time copy of the watcher's counters.
type Stats struct {
	Cycles     int64         // cycles run since New
	Records    int64         // size of the snapshot after the last cycle
	Creates    int64         // creations dispatched
	Modifies   int64         // modifications dispatched
	Deletes    int64         // deletions dispatched
	Skipped    int64         // entries left out because they could not be read
	SinkPanics int64         // sink calls that panicked
	Behind     int64         // cycles that took longer than the interval
	LastCycle  time.Duration // duration of the last cycle
	MaxCycle   time.Duration // longest cycle seen
}

// counters is updated by the cycle goroutine and read from anywhere.
type counters struct {
	cycles     atomic.Int64
	records    atomic.Int64
	creates    atomic.Int64
	modifies   atomic.Int64
	deletes    atomic.Int64
	skipped    atomic.Int64
	sinkPanics atomic.Int64
	behind     atomic.Int64
	lastCycle  atomic.Int64
	maxCycle   atomic.Int64
}

func (c *counters) observeCycle(d time.Duration, interval time.Duration) {
	c.lastCycle.Store(int64(d))

	for {
		current := c.maxCycle.Load()
		if int64(d) <= current || c.maxCycle.CompareAndSwap(current, int64(d)) {
			break
		}
	}

	if d > interval {
		c.behind.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Cycles:     c.cycles.Load(),
		Records:    c.records.Load(),
		Creates:    c.creates.Load(),
		Modifies:   c.modifies.Load(),
		Deletes:    c.deletes.Load(),
		Skipped:    c.skipped.Load(),
		SinkPanics: c.sinkPanics.Load(),
		Behind:     c.behind.Load(),
		LastCycle:  time.Duration(c.lastCycle.Load()),
		MaxCycle:   time.Duration(c.maxCycle.Load()),
	}
}
