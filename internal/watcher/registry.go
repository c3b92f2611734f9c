package watcher

import (
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Registration is one watched path and the sinks recorded against it.
type Registration struct {
	Path  string
	Sinks []Sink
}

// DirectoryRegistry owns the roots under scan and the sinks recorded per path.
//
// No root is ever an ancestor of another root: registering a path inside an
// existing root adds no root, and registering an ancestor replaces the roots
// beneath it. Sinks are always recorded against the exact registered path.
type DirectoryRegistry struct {
	mu    sync.Mutex
	roots []string
	sinks map[string][]Sink
}

// NewDirectoryRegistry creates an empty registry.
func NewDirectoryRegistry() *DirectoryRegistry {
	return &DirectoryRegistry{
		sinks: make(map[string][]Sink),
	}
}

// Register records sink against path and folds path into the root set.
// path must already be absolute and cleaned. Registering the same sink twice
// on the same path records it once.
func (r *DirectoryRegistry) Register(sink Sink, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	covered := false
	roots := make([]string, 0, len(r.roots)+1)

	for _, root := range r.roots {
		switch {
		case isWithin(root, path):
			covered = true
			roots = append(roots, root)
		case isWithin(path, root):
			// superseded by the broader path
		default:
			roots = append(roots, root)
		}
	}

	if !covered {
		roots = append(roots, path)
	}

	r.roots = roots

	for _, existing := range r.sinks[path] {
		if sameSink(existing, sink) {
			return
		}
	}

	r.sinks[path] = append(r.sinks[path], sink)
}

// Unregister removes sink from path and reports whether it was registered there.
// Roots are recomputed from the paths that still have sinks, so a root with
// nothing left to notify stops being scanned.
func (r *DirectoryRegistry) Unregister(sink Sink, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sinks := r.sinks[path]
	kept := make([]Sink, 0, len(sinks))
	removed := false

	for _, existing := range sinks {
		if sameSink(existing, sink) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}

	if !removed {
		return false
	}

	if len(kept) == 0 {
		delete(r.sinks, path)
	} else {
		r.sinks[path] = kept
	}

	r.roots = minimalCover(r.sinks)

	return true
}

// Roots returns the current roots in path order.
func (r *DirectoryRegistry) Roots() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	roots := append([]string(nil), r.roots...)
	sort.Strings(roots)

	return roots
}

// Snapshot returns copies of the roots and the registrations, both in path order.
// The cycle works from the copies so registration never blocks on a scan.
func (r *DirectoryRegistry) Snapshot() ([]string, []Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roots := append([]string(nil), r.roots...)
	sort.Strings(roots)

	regs := make([]Registration, 0, len(r.sinks))
	for path, sinks := range r.sinks {
		regs = append(regs, Registration{Path: path, Sinks: append([]Sink(nil), sinks...)})
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Path < regs[j].Path })

	return roots, regs
}

// isWithin reports whether path is root or lies beneath it, comparing whole
// path segments: /data contains /data/x but not /database.
func isWithin(root, path string) bool {
	if path == root {
		return true
	}

	if !strings.HasPrefix(path, root) {
		return false
	}

	if strings.HasSuffix(root, "/") || strings.HasSuffix(root, string(filepath.Separator)) {
		return true
	}

	next := path[len(root)]

	return next == '/' || next == filepath.Separator
}

// withinAny reports whether path lies within one of roots.
func withinAny(roots []string, path string) bool {
	for _, root := range roots {
		if isWithin(root, path) {
			return true
		}
	}

	return false
}

// minimalCover returns the registered paths that have no registered ancestor.
func minimalCover(sinks map[string][]Sink) []string {
	paths := make([]string, 0, len(sinks))
	for path := range sinks {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	roots := make([]string, 0, len(paths))
	for _, path := range paths {
		if !withinAny(roots, path) {
			roots = append(roots, path)
		}
	}

	return roots
}

// sameSink compares sinks without panicking on uncomparable dynamic types.
// Function sinks compare by code pointer.
func sameSink(a, b Sink) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}

	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}

	if !va.Type().Comparable() {
		return false
	}

	return a == b
}
