package watcher

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Dispatcher delivers classified changes to the sinks whose registered path
// contains the changed entry.
//
// Within one result, modifications go first, then deletions, then creations.
// Registrations are visited in path order and sinks in registration order.
type Dispatcher struct {
	log logrus.FieldLogger

	// OnSinkFailure, if set, is called after a sink panicked.
	OnSinkFailure func(path string, kind EventKind, err error)
}

// NewDispatcher creates a dispatcher that logs sink failures to log.
func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = discardLogger()
	}

	return &Dispatcher{log: log}
}

// Dispatch delivers every change in result to the matching registrations and
// returns how many sink calls were made.
func (d *Dispatcher) Dispatch(result DiffResult, regs []Registration) int {
	delivered := 0

	for _, mod := range result.Modified {
		delivered += d.route(regs, Modify, mod.Old, mod.New)
	}

	for _, rec := range result.Deleted {
		delivered += d.route(regs, Delete, FileRecord{}, rec)
	}

	for _, rec := range result.Created {
		delivered += d.route(regs, Create, FileRecord{}, rec)
	}

	return delivered
}

func (d *Dispatcher) route(regs []Registration, kind EventKind, old, rec FileRecord) int {
	delivered := 0

	for _, reg := range regs {
		if !isWithin(reg.Path, rec.Path) {
			continue
		}

		for _, sink := range reg.Sinks {
			d.deliver(sink, kind, old, rec)
			delivered++
		}
	}

	return delivered
}

// deliver calls one sink, recovering from a panic so the remaining sinks and
// the cycle are unaffected.
func (d *Dispatcher) deliver(sink Sink, kind EventKind, old, rec FileRecord) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("sink panicked: %v", r)

			d.log.WithFields(logrus.Fields{
				"path": rec.Path,
				"kind": kind.String(),
			}).WithError(err).Error("sink failed")

			if d.OnSinkFailure != nil {
				d.OnSinkFailure(rec.Path, kind, err)
			}
		}
	}()

	switch kind {
	case Create:
		if s, ok := sink.(CreateSink); ok {
			if rec.IsDir {
				s.OnCreateDirectory(rec)
			} else {
				s.OnCreateFile(rec)
			}

			return
		}
	case Modify:
		if s, ok := sink.(ModifySink); ok {
			if rec.IsDir {
				s.OnModifyDirectory(old, rec)
			} else {
				s.OnModifyFile(old, rec)
			}

			return
		}
	case Delete:
		if s, ok := sink.(DeleteSink); ok {
			if rec.IsDir {
				s.OnDeleteDirectory(rec)
			} else {
				s.OnDeleteFile(rec)
			}

			return
		}
	}

	sink.OnWatchEvent(kind, rec)
}
