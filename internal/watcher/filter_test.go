//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package watcher_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/internal/watcher"
)

func TestGlobFilterInvalidPattern(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := watcher.NewGlobFilter("[invalid")
	g.Expect(err).Should(MatchError(watcher.ErrInvalidPattern))
}

func TestGlobFilterNoPatterns(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	filter, err := watcher.NewGlobFilter()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(filter.Ignored("any/file.txt")).Should(BeFalse())

	filter, err = watcher.NewGlobFilter("")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(filter.Patterns()).Should(BeEmpty())
}

//nolint:funlen // Test function with comprehensive table-driven test cases
func TestGlobFilterIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		ignored bool
	}{
		{
			name:    "extension at top level",
			pattern: "*.tmp",
			path:    "scratch.tmp",
			ignored: true,
		},
		{
			name:    "extension at any depth via base name",
			pattern: "*.tmp",
			path:    "a/b/scratch.tmp",
			ignored: true,
		},
		{
			name:    "extension no match",
			pattern: "*.tmp",
			path:    "a/b/scratch.txt",
			ignored: false,
		},
		{
			name:    "case insensitive pattern",
			pattern: "*.LOG",
			path:    "server.log",
			ignored: true,
		},
		{
			name:    "case insensitive path",
			pattern: "*.log",
			path:    "SERVER.LOG",
			ignored: true,
		},
		{
			name:    "anchored directory",
			pattern: "build/**",
			path:    "build/out/app",
			ignored: true,
		},
		{
			name:    "anchored directory does not match nested",
			pattern: "build/**",
			path:    "src/build/out/app",
			ignored: false,
		},
		{
			name:    "doublestar anywhere",
			pattern: "**/.git",
			path:    "vendor/lib/.git",
			ignored: true,
		},
		{
			name:    "directory name",
			pattern: "node_modules",
			path:    "web/node_modules",
			ignored: true,
		},
		{
			name:    "brace alternatives",
			pattern: "*.{swp,swo}",
			path:    "doc/.readme.swo",
			ignored: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			filter, err := watcher.NewGlobFilter(tt.pattern)
			g.Expect(err).ShouldNot(HaveOccurred())
			g.Expect(filter.Ignored(tt.path)).Should(Equal(tt.ignored))
		})
	}
}
