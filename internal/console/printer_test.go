//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package console_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/console"
	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestPrinter_ImplementsAllCallbacks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var sink watcher.Sink = console.NewPrinter(&bytes.Buffer{})

	g.Expect(sink).Should(BeAssignableToTypeOf(&console.Printer{}))
	g.Expect(sink).Should(Satisfy(func(s watcher.Sink) bool {
		_, c := s.(watcher.CreateSink)
		_, m := s.(watcher.ModifySink)
		_, d := s.(watcher.DeleteSink)

		return c && m && d
	}))
}

func TestPrinter_Lines(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf bytes.Buffer

	printer := console.NewPrinter(&buf)

	file := watcher.FileRecord{Path: "/w/report.csv", Size: 12}
	bigger := file
	bigger.Size = 2048
	dir := watcher.FileRecord{Path: "/w/archive", IsDir: true}

	printer.OnCreateFile(file)
	printer.OnCreateDirectory(dir)
	printer.OnModifyFile(file, bigger)
	printer.OnModifyFile(bigger, bigger)
	printer.OnModifyDirectory(dir, dir)
	printer.OnDeleteFile(file)
	printer.OnDeleteDirectory(dir)

	g.Expect(lines(&buf)).Should(Equal([]string{
		"created file /w/report.csv (12 B)",
		"created dir /w/archive",
		"modified file /w/report.csv (12 B -> 2.0 KiB)",
		"modified file /w/report.csv (2.0 KiB)",
		"modified dir /w/archive",
		"deleted file /w/report.csv",
		"deleted dir /w/archive",
	}))
	g.Expect(printer.Lines()).Should(Equal(7))
}

func TestPrinter_UnifiedCallback(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf bytes.Buffer

	printer := console.NewPrinter(&buf)
	printer.OnWatchEvent(watcher.Create, watcher.FileRecord{Path: "/w/a", Size: 1})
	printer.OnWatchEvent(watcher.Modify, watcher.FileRecord{Path: "/w/d", IsDir: true})
	printer.OnWatchEvent(watcher.Delete, watcher.FileRecord{Path: "/w/a"})

	g.Expect(lines(&buf)).Should(Equal([]string{
		"created file /w/a (1 B)",
		"modified dir /w/d",
		"deleted file /w/a",
	}))
}

func TestPrinter_HiddenSuppressed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf bytes.Buffer

	printer := console.NewPrinter(&buf, console.WithHidden(false))
	printer.OnCreateFile(watcher.FileRecord{Path: "/w/.swap", IsHidden: true})
	printer.OnModifyFile(watcher.FileRecord{Path: "/w/.swap", IsHidden: true}, watcher.FileRecord{Path: "/w/.swap", IsHidden: true})
	printer.OnCreateFile(watcher.FileRecord{Path: "/w/visible"})

	g.Expect(lines(&buf)).Should(Equal([]string{"created file /w/visible (0 B)"}))
}

func TestPrinter_ConcurrentWrites(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf bytes.Buffer

	printer := console.NewPrinter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				printer.OnDeleteFile(watcher.FileRecord{Path: "/w/x"})
			}
		}()
	}
	wg.Wait()

	g.Expect(printer.Lines()).Should(Equal(200))
	g.Expect(lines(&buf)).Should(HaveLen(200))
}

func TestPrinter_WiredToWatcher(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/w", start)

	w, err := watcher.New(watcher.Options{FileSystem: fs})
	g.Expect(err).ShouldNot(HaveOccurred())

	var buf bytes.Buffer

	_, err = w.RegisterListener(console.NewPrinter(&buf), "/w")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(w.Poll()).Should(Succeed())
	g.Expect(buf.String()).Should(BeEmpty())

	fs.AddFile("/w/new.txt", 5, start.Add(time.Second))
	g.Expect(w.Poll()).Should(Succeed())

	g.Expect(lines(&buf)).Should(Equal([]string{"created file /w/new.txt (5 B)"}))
}
