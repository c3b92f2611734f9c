package watcher

import "time"

// Event is the interface implemented by all cycle events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
// Emit is called on the cycle goroutine and must not block.
type EventEmitter interface {
	Emit(event Event)
}

// Cycle events

// CycleStarted is emitted when a scan cycle begins.
type CycleStarted struct {
	Cycle int64
}

func (CycleStarted) isEvent() {}

// RootScanned is emitted after each root has been walked.
type RootScanned struct {
	Root  string
	Count int
	Err   error // set when the root itself could not be walked
}

func (RootScanned) isEvent() {}

// EntrySkipped is emitted when an entry is left out of a cycle because it
// could not be read.
type EntrySkipped struct {
	Path string
	Err  error
}

func (EntrySkipped) isEvent() {}

// CycleComplete is emitted after dispatch, once the new snapshot is committed.
type CycleComplete struct {
	Cycle    int64
	Records  int
	Created  int
	Modified int
	Deleted  int
	Baseline int // creations recorded silently as the baseline
	Duration time.Duration
}

func (CycleComplete) isEvent() {}

// Error events

// SinkFailed is emitted when a sink panicked while handling a change.
type SinkFailed struct {
	Path string
	Kind EventKind
	Err  error
}

func (SinkFailed) isEvent() {}
