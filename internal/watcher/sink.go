package watcher

// EventKind is the kind of change delivered to a sink.
type EventKind int

// Event kinds.
const (
	Create EventKind = iota
	Modify
	Delete
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case Create:
		return "create"
	case Modify:
		return "modify"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Sink receives the changes detected under the paths it is registered on.
//
// Sinks are called synchronously on the watcher's cycle goroutine, one at a
// time; a slow sink delays the next cycle for every root. Hand long work off
// to another goroutine.
type Sink interface {
	// OnWatchEvent is called for every change the sink does not handle through
	// one of the granular interfaces below. For modifications record is the
	// new state.
	OnWatchEvent(kind EventKind, record FileRecord)
}

// CreateSink is implemented by sinks that want creations split by entry type.
type CreateSink interface {
	OnCreateFile(record FileRecord)
	OnCreateDirectory(record FileRecord)
}

// ModifySink is implemented by sinks that want both sides of a modification.
type ModifySink interface {
	OnModifyFile(old, updated FileRecord)
	OnModifyDirectory(old, updated FileRecord)
}

// DeleteSink is implemented by sinks that want deletions split by entry type.
type DeleteSink interface {
	OnDeleteFile(record FileRecord)
	OnDeleteDirectory(record FileRecord)
}

// SinkFunc adapts a function to a Sink.
// Two SinkFuncs built from the same function literal compare equal when
// unregistering; wrap closures in a named type if they need separate identities.
type SinkFunc func(kind EventKind, record FileRecord)

// OnWatchEvent calls f.
func (f SinkFunc) OnWatchEvent(kind EventKind, record FileRecord) {
	f(kind, record)
}
