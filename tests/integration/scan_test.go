//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/watcher"
)

// eventCollector collects cycle events and changes for verification.
type eventCollector struct {
	mu      sync.Mutex
	events  []watcher.Event
	changes []string
}

func (c *eventCollector) Emit(event watcher.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
}

func (c *eventCollector) OnWatchEvent(kind watcher.EventKind, record watcher.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.changes = append(c.changes, kind.String()+" "+record.Path)
}

func (c *eventCollector) Changes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.changes...)
}

func (c *eventCollector) Completed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, event := range c.events {
		if _, ok := event.(watcher.CycleComplete); ok {
			count++
		}
	}

	return count
}

// waitCycles blocks until n more cycles have completed.
func waitCycles(g *WithT, c *eventCollector, n int) {
	target := c.Completed() + n
	g.Eventually(c.Completed, 10*time.Second, 5*time.Millisecond).Should(BeNumerically(">=", target))
}

// TestIntegration_LifecycleOnRealDisk creates, modifies and deletes entries
// under a running watcher and checks each change is reported once.
func TestIntegration_LifecycleOnRealDisk(t *testing.T) {
	g := NewWithT(t)

	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "sub/c.txt"} {
		path := filepath.Join(root, name)
		g.Expect(os.MkdirAll(filepath.Dir(path), 0o755)).Should(Succeed())
		g.Expect(os.WriteFile(path, []byte("content"), 0o644)).Should(Succeed())
	}

	collector := &eventCollector{}

	w, err := watcher.New(watcher.Options{
		Interval: 25 * time.Millisecond,
		Emitter:  collector,
		Ignore:   []string{"*.swp"},
	})
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = w.RegisterListener(collector, root)
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = w.Start()
	g.Expect(err).ShouldNot(HaveOccurred())

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		g.Expect(w.Shutdown(ctx)).Should(Succeed())
	}()

	waitCycles(g, collector, 1)
	g.Expect(collector.Changes()).Should(BeEmpty(), "the first scan is the baseline")

	newFile := filepath.Join(root, "sub", "new.txt")
	g.Expect(os.WriteFile(newFile, []byte("x"), 0o644)).Should(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, ".d.swp"), nil, 0o644)).Should(Succeed())

	future := time.Now().Add(time.Hour)
	g.Expect(os.Chtimes(filepath.Join(root, "a.txt"), future, future)).Should(Succeed())
	g.Expect(os.Remove(filepath.Join(root, "b.txt"))).Should(Succeed())

	g.Eventually(collector.Changes, 10*time.Second, 5*time.Millisecond).Should(ContainElements(
		"create "+newFile,
		"modify "+filepath.Join(root, "a.txt"),
		"delete "+filepath.Join(root, "b.txt"),
	))

	waitCycles(g, collector, 3)

	changes := collector.Changes()
	g.Expect(changes).Should(ContainElement("create " + newFile))
	g.Expect(changes).ShouldNot(ContainElement(ContainSubstring(".swp")))

	seen := map[string]int{}
	for _, change := range changes {
		seen[change]++
	}

	for change, count := range seen {
		if change == "modify "+filepath.Join(root, "sub") || change == "modify "+root {
			continue
		}

		g.Expect(count).Should(Equal(1), change)
	}
}

// TestIntegration_ShutdownIsFinal checks a shut down watcher cannot restart.
func TestIntegration_ShutdownIsFinal(t *testing.T) {
	g := NewWithT(t)

	w, err := watcher.New(watcher.Options{Interval: 10 * time.Millisecond})
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = w.RegisterListener(watcher.SinkFunc(func(watcher.EventKind, watcher.FileRecord) {}), t.TempDir())
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = w.Start()
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(w.Shutdown(context.Background())).Should(Succeed())

	_, err = w.Start()
	g.Expect(err).Should(MatchError(watcher.ErrShutDown))
	g.Expect(w.Poll()).Should(MatchError(watcher.ErrShutDown))
}
