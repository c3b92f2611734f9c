//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package shared_test

import (
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/tui/shared"
	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

func mockTree() *filesystem.MockFileSystem {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/w/a.txt", 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	return fs
}

func TestFormatChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      shared.ChangeMsg
		contains []string
		excludes []string
	}{
		{
			name:     "created file shows size",
			msg:      shared.ChangeMsg{Kind: watcher.Create, Record: watcher.FileRecord{Path: "/w/a", Size: 12}},
			contains: []string{"/w/a", "(12 B)"},
		},
		{
			name:     "directory gets trailing slash",
			msg:      shared.ChangeMsg{Kind: watcher.Create, Record: watcher.FileRecord{Path: "/w/d", IsDir: true}},
			contains: []string{"/w/d/"},
			excludes: []string{" B)"},
		},
		{
			name: "modified file shows size change",
			msg: shared.ChangeMsg{
				Kind:   watcher.Modify,
				Old:    watcher.FileRecord{Path: "/w/a", Size: 1},
				Record: watcher.FileRecord{Path: "/w/a", Size: 1024},
			},
			contains: []string{"(1 B -> 1.0 KiB)"},
		},
		{
			name:     "deleted file has no size",
			msg:      shared.ChangeMsg{Kind: watcher.Delete, Record: watcher.FileRecord{Path: "/w/a", Size: 9}},
			contains: []string{"/w/a"},
			excludes: []string{"9 B"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			line := shared.FormatChange(tt.msg)
			for _, want := range tt.contains {
				g.Expect(line).To(ContainSubstring(want))
			}

			for _, unwanted := range tt.excludes {
				g.Expect(line).NotTo(ContainSubstring(unwanted))
			}
		})
	}
}

func TestTruncatePath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(shared.TruncatePath("/short", 20)).To(Equal("/short"))
	g.Expect(shared.TruncatePath("/a/very/long/path/to/file.txt", 13)).To(Equal("/a/ve...e.txt"))
	g.Expect(shared.TruncatePath("/a/very/long/path/to/file.txt", 13)).To(HaveLen(13))
	g.Expect(shared.TruncatePath("/abc", 2)).To(Equal("/abc"))
}

func TestChangeSymbolDistinct(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	symbols := map[string]bool{
		shared.ChangeSymbol(watcher.Create): true,
		shared.ChangeSymbol(watcher.Modify): true,
		shared.ChangeSymbol(watcher.Delete): true,
	}
	g.Expect(symbols).To(HaveLen(3))
}
