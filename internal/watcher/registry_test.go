//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package watcher_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

func TestDirectoryRegistry_DescendantIsAbsorbed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	outer, inner := &recordingSink{}, &recordingSink{}

	reg.Register(outer, "/watched")
	reg.Register(inner, "/watched/x/deep")

	g.Expect(reg.Roots()).Should(Equal([]string{"/watched"}))

	_, regs := reg.Snapshot()
	g.Expect(regs).Should(HaveLen(2))
	g.Expect(regs[1].Path).Should(Equal("/watched/x/deep"))
}

func TestDirectoryRegistry_AncestorReplacesRoots(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	sink := &recordingSink{}

	reg.Register(sink, "/watched/x")
	reg.Register(sink, "/watched/y")
	g.Expect(reg.Roots()).Should(Equal([]string{"/watched/x", "/watched/y"}))

	reg.Register(sink, "/watched")
	g.Expect(reg.Roots()).Should(Equal([]string{"/watched"}))
}

func TestDirectoryRegistry_SameRootTwice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	sink := &recordingSink{}

	reg.Register(sink, "/watched")
	reg.Register(sink, "/watched")

	g.Expect(reg.Roots()).Should(HaveLen(1))

	_, regs := reg.Snapshot()
	g.Expect(regs).Should(HaveLen(1))
	g.Expect(regs[0].Sinks).Should(HaveLen(1))
}

func TestDirectoryRegistry_SegmentAwareContainment(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	sink := &recordingSink{}

	reg.Register(sink, "/data")
	reg.Register(sink, "/database")

	g.Expect(reg.Roots()).Should(Equal([]string{"/data", "/database"}))
}

func TestDirectoryRegistry_UnregisterShrinksRoots(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	outer, inner := &recordingSink{}, &recordingSink{}

	reg.Register(inner, "/watched/x")
	reg.Register(outer, "/watched")
	g.Expect(reg.Roots()).Should(Equal([]string{"/watched"}))

	g.Expect(reg.Unregister(outer, "/watched")).Should(BeTrue())
	g.Expect(reg.Roots()).Should(Equal([]string{"/watched/x"}))

	g.Expect(reg.Unregister(inner, "/watched/x")).Should(BeTrue())
	g.Expect(reg.Roots()).Should(BeEmpty())
}

func TestDirectoryRegistry_UnregisterUnknownSink(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	reg.Register(&recordingSink{}, "/watched")

	g.Expect(reg.Unregister(&recordingSink{}, "/watched")).Should(BeFalse())
	g.Expect(reg.Unregister(&recordingSink{}, "/elsewhere")).Should(BeFalse())
	g.Expect(reg.Roots()).Should(Equal([]string{"/watched"}))
}

func TestDirectoryRegistry_UnregisterSinkFunc(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := watcher.NewDirectoryRegistry()
	fn := watcher.SinkFunc(func(watcher.EventKind, watcher.FileRecord) {})

	reg.Register(fn, "/watched")
	g.Expect(reg.Unregister(fn, "/watched")).Should(BeTrue())
	g.Expect(reg.Roots()).Should(BeEmpty())
}

func TestWatcher_RegisterMissingPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	w := newMockWatcher(t, fs, watcher.Options{})

	_, err := w.RegisterListener(&recordingSink{}, "/nowhere")
	g.Expect(err).Should(MatchError(watcher.ErrNotFound))
	g.Expect(w.Roots()).Should(BeEmpty())

	_, err = w.RegisterListener(&recordingSink{}, "   ")
	g.Expect(err).Should(MatchError(watcher.ErrNotFound))
	g.Expect(w.Roots()).Should(BeEmpty())
}

func TestWatcher_RegisterNilSink(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/watched", t0)
	w := newMockWatcher(t, fs, watcher.Options{})

	_, err := w.RegisterListener(nil, "/watched")
	g.Expect(err).Should(MatchError(watcher.ErrNilSink))
}

func TestWatcher_RegisterNormalizesPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/watched/x", t0)
	w := newMockWatcher(t, fs, watcher.Options{})

	_, err := w.RegisterListener(&recordingSink{}, "/watched/x/../x/")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(w.Roots()).Should(Equal([]string{"/watched/x"}))
}

func TestWatcher_RegisterDescendantKeepsRootCount(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/watched/x/y", t0)
	w := newMockWatcher(t, fs, watcher.Options{})

	_, err := w.RegisterListener(&recordingSink{}, "/watched")
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = w.RegisterListener(&recordingSink{}, "/watched/x/y")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(w.Roots()).Should(Equal([]string{"/watched"}))
}
