// Package watcher detects changes under registered directory trees by
// polling: every cycle rescans each root, diffs the result against the
// previous snapshot and notifies the sinks registered on the affected paths.
//
// A Watcher owns one background goroutine while running. Scan, diff and
// dispatch all happen on it, so sinks must return quickly.
package watcher

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joe/dirpoll/pkg/filesystem"
)

// DefaultInterval is the delay between the end of one cycle and the start of the next.
const DefaultInterval = 2000 * time.Millisecond

// Exported variables.
var (
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidPattern  = errors.New("invalid ignore pattern")
	ErrNilSink         = errors.New("sink is nil")
	ErrNotFound        = errors.New("path not found")
	ErrShutDown        = errors.New("watcher is shut down")
)

// Options configures a Watcher. The zero value is usable.
type Options struct {
	// Interval between cycles. Zero means DefaultInterval.
	Interval time.Duration

	// InitialScanNotification reports everything found by the first cycle
	// as created. When false the first cycle only establishes the baseline.
	InitialScanNotification bool

	// BaselineNewRoots extends the silent baseline to roots registered after
	// the first cycle, so their existing entries are not reported as created.
	// Ignored when InitialScanNotification is set.
	BaselineNewRoots bool

	// FileSystem to scan. Defaults to the local disk.
	FileSystem filesystem.FileSystem

	// Logger for scan and dispatch problems. Defaults to warnings on stderr.
	Logger logrus.FieldLogger

	// Ignore lists doublestar patterns for entries to leave out.
	Ignore []string

	// Emitter receives cycle events. Optional.
	Emitter EventEmitter

	// TimeProvider drives the scheduler. Defaults to real time.
	TimeProvider TimeProvider
}

// Watcher coordinates the registry, the scheduler and the dispatcher.
// Multiple watchers may run in one process; they share nothing.
type Watcher struct {
	interval         time.Duration
	initialNotify    bool
	baselineNewRoots bool
	fsys             filesystem.FileSystem
	log              logrus.FieldLogger
	emitter          EventEmitter
	timeProvider     TimeProvider

	registry   *DirectoryRegistry
	scanner    *Scanner
	differ     *SnapshotDiffer
	dispatcher *Dispatcher
	stats      counters

	// lifecycle
	lifeMu   sync.Mutex
	state    State
	stopCh   chan struct{}
	loopDone chan struct{}

	// cycle state, guarded by cycleMu
	cycleMu   sync.Mutex
	scanned   bool
	baselined []string

	epoch        atomic.Int64
	resetPending atomic.Bool
}

// New creates a stopped watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Interval < 0 {
		return nil, errors.Wrapf(ErrInvalidInterval, "got %s", opts.Interval)
	}

	interval := opts.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	filter, err := NewGlobFilter(opts.Ignore...)
	if err != nil {
		return nil, err
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewRealFileSystem()
	}

	log := opts.Logger
	if log == nil {
		log = defaultLogger()
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	w := &Watcher{
		interval:         interval,
		initialNotify:    opts.InitialScanNotification,
		baselineNewRoots: opts.BaselineNewRoots,
		fsys:             fsys,
		log:              log,
		emitter:          opts.Emitter,
		timeProvider:     timeProvider,
		registry:         NewDirectoryRegistry(),
		differ:           NewSnapshotDiffer(),
		dispatcher:       NewDispatcher(log),
		scanner:          NewScanner(fsys, filter, log),
		state:            StateStopped,
	}

	w.scanner.OnSkip = func(path string, err error) {
		w.stats.skipped.Add(1)
		w.emit(EntrySkipped{Path: path, Err: err})
	}

	w.dispatcher.OnSinkFailure = func(path string, kind EventKind, err error) {
		w.stats.sinkPanics.Add(1)
		w.emit(SinkFailed{Path: path, Kind: kind, Err: err})
	}

	return w, nil
}

// RegisterListener records sink against path and starts watching the tree
// under it, unless an already watched root covers it.
// A blank or missing path fails with ErrNotFound and registers nothing.
func (w *Watcher) RegisterListener(sink Sink, path string) (*Watcher, error) {
	if sink == nil {
		return w, ErrNilSink
	}

	abs, err := w.resolve(path)
	if err != nil {
		return w, err
	}

	if _, err := w.fsys.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return w, errors.Wrapf(ErrNotFound, "%s", abs)
		}

		return w, errors.Wrapf(err, "failed to register %s", abs)
	}

	w.registry.Register(sink, abs)
	w.log.WithField("path", abs).Debug("registered listener")

	return w, nil
}

// UnregisterListener removes sink from path. A root with no sinks left at or
// beneath it stops being scanned; its entries leave the snapshot silently.
func (w *Watcher) UnregisterListener(sink Sink, path string) {
	abs, err := w.resolve(path)
	if err != nil {
		return
	}

	if w.registry.Unregister(sink, abs) {
		w.log.WithField("path", abs).Debug("unregistered listener")
	}
}

// Interval returns the configured delay between cycles.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Roots returns the roots currently scanned, in path order.
func (w *Watcher) Roots() []string {
	return w.registry.Roots()
}

// Snapshot returns the monitored set as of the last committed cycle.
func (w *Watcher) Snapshot() []FileRecord {
	if w.resetPending.Load() {
		return []FileRecord{}
	}

	return w.differ.Snapshot()
}

// Stats returns the watcher's counters.
func (w *Watcher) Stats() Stats {
	return w.stats.snapshot()
}

// emit sends an event if an emitter is configured.
func (w *Watcher) emit(event Event) {
	if w.emitter != nil {
		w.emitter.Emit(event)
	}
}

func (w *Watcher) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Wrap(ErrNotFound, "blank path")
	}

	abs, err := w.fsys.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}

	return abs, nil
}

func defaultLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	return log
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}
