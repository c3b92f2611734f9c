// Package console prints watcher changes as one line each.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/formatters"
)

// Printer is a watcher sink that writes a line per change, e.g.
//
//	created file /srv/data/report.csv (12 B)
//	modified dir /srv/data/archive
//	deleted file /srv/data/old.log
//
// A Printer may be registered on several roots; writes are serialized.
type Printer struct {
	mu         sync.Mutex
	out        io.Writer
	showHidden bool
	lines      int
}

// Option configures a Printer.
type Option func(*Printer)

// WithHidden controls whether changes to hidden entries are printed.
func WithHidden(show bool) Option {
	return func(p *Printer) {
		p.showHidden = show
	}
}

// NewPrinter returns a Printer writing to out. Hidden entries are printed unless
// WithHidden(false) is given.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	printer := &Printer{out: out, showHidden: true}
	for _, opt := range opts {
		opt(printer)
	}

	return printer
}

// Lines returns how many lines have been written.
func (p *Printer) Lines() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lines
}

// OnWatchEvent prints a change delivered through the unified callback.
func (p *Printer) OnWatchEvent(kind watcher.EventKind, record watcher.FileRecord) {
	switch kind {
	case watcher.Create:
		p.print("created", record)
	case watcher.Modify:
		p.print("modified", record)
	case watcher.Delete:
		p.print("deleted", record)
	default:
		p.print(kind.String(), record)
	}
}

// OnCreateFile prints a created file with its size.
func (p *Printer) OnCreateFile(record watcher.FileRecord) {
	p.print("created", record)
}

// OnCreateDirectory prints a created directory.
func (p *Printer) OnCreateDirectory(record watcher.FileRecord) {
	p.print("created", record)
}

// OnModifyFile prints a modified file, with the size change when there is one.
func (p *Printer) OnModifyFile(old, updated watcher.FileRecord) {
	if !p.visible(updated) {
		return
	}

	if old.Size == updated.Size {
		p.printLine("modified file %s (%s)", updated.Path, formatters.FormatBytes(updated.Size))
		return
	}

	p.printLine("modified file %s (%s -> %s)",
		updated.Path, formatters.FormatBytes(old.Size), formatters.FormatBytes(updated.Size))
}

// OnModifyDirectory prints a modified directory.
func (p *Printer) OnModifyDirectory(_, updated watcher.FileRecord) {
	p.print("modified", updated)
}

// OnDeleteFile prints a deleted file.
func (p *Printer) OnDeleteFile(record watcher.FileRecord) {
	p.print("deleted", record)
}

// OnDeleteDirectory prints a deleted directory.
func (p *Printer) OnDeleteDirectory(record watcher.FileRecord) {
	p.print("deleted", record)
}

func (p *Printer) print(verb string, record watcher.FileRecord) {
	if !p.visible(record) {
		return
	}

	switch {
	case record.IsDir:
		p.printLine("%s dir %s", verb, record.Path)
	case verb == "deleted":
		p.printLine("%s file %s", verb, record.Path)
	default:
		p.printLine("%s file %s (%s)", verb, record.Path, formatters.FormatBytes(record.Size))
	}
}

func (p *Printer) printLine(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
	p.lines++
}

func (p *Printer) visible(record watcher.FileRecord) bool {
	return p.showHidden || !record.IsHidden
}
