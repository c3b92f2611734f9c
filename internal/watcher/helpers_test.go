//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package watcher_test

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

// t0 is the base modification time for mock filesystem entries.
var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// change is one delivered notification, flattened for comparisons.
type change struct {
	Kind watcher.EventKind
	Path string
}

// recordingSink implements only the unified callback.
type recordingSink struct {
	mu      sync.Mutex
	changes []change
}

func (s *recordingSink) OnWatchEvent(kind watcher.EventKind, record watcher.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changes = append(s.changes, change{Kind: kind, Path: record.Path})
}

func (s *recordingSink) Changes() []change {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]change(nil), s.changes...)
}

// granularSink implements all six granular callbacks and records which one ran.
type granularSink struct {
	mu    sync.Mutex
	calls []string
	olds  []watcher.FileRecord
}

func (s *granularSink) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
}

func (s *granularSink) OnWatchEvent(kind watcher.EventKind, record watcher.FileRecord) {
	s.record("unified " + kind.String() + " " + record.Path)
}

func (s *granularSink) OnCreateFile(record watcher.FileRecord) {
	s.record("create file " + record.Path)
}

func (s *granularSink) OnCreateDirectory(record watcher.FileRecord) {
	s.record("create dir " + record.Path)
}

func (s *granularSink) OnModifyFile(old, updated watcher.FileRecord) {
	s.mu.Lock()
	s.olds = append(s.olds, old)
	s.mu.Unlock()
	s.record("modify file " + updated.Path)
}

func (s *granularSink) OnModifyDirectory(old, updated watcher.FileRecord) {
	s.mu.Lock()
	s.olds = append(s.olds, old)
	s.mu.Unlock()
	s.record("modify dir " + updated.Path)
}

func (s *granularSink) OnDeleteFile(record watcher.FileRecord) {
	s.record("delete file " + record.Path)
}

func (s *granularSink) OnDeleteDirectory(record watcher.FileRecord) {
	s.record("delete dir " + record.Path)
}

func (s *granularSink) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// panickingSink panics on every change.
type panickingSink struct{}

func (panickingSink) OnWatchEvent(watcher.EventKind, watcher.FileRecord) {
	panic("boom")
}

// testEventEmitter is a simple test double for capturing events.
type testEventEmitter struct {
	mu     sync.Mutex
	events []watcher.Event
}

func (e *testEventEmitter) Emit(event watcher.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = append(e.events, event)
}

func (e *testEventEmitter) Events() []watcher.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]watcher.Event(nil), e.events...)
}

// newMockWatcher builds a watcher over a mock filesystem.
func newMockWatcher(t *testing.T, fs *filesystem.MockFileSystem, opts watcher.Options) *watcher.Watcher {
	t.Helper()

	opts.FileSystem = fs

	w, err := watcher.New(opts)
	NewWithT(t).Expect(err).ShouldNot(HaveOccurred())

	return w
}

func recordPaths(records []watcher.FileRecord) []string {
	paths := make([]string, 0, len(records))
	for _, rec := range records {
		paths = append(paths, rec.Path)
	}

	return paths
}

func fileRecord(path string, modTime time.Time) watcher.FileRecord {
	return watcher.FileRecord{Path: path, LastModified: modTime}
}
