package watcher

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// PathFilter decides which scanned entries are left out of the snapshot.
type PathFilter interface {
	// Ignored returns true if the entry at relativePath (relative to its root,
	// slash separated) should not be tracked.
	Ignored(relativePath string) bool
}

// GlobFilter implements PathFilter using doublestar glob patterns.
// A pattern matches either the whole relative path or the base name, so
// "*.swp" catches swap files at any depth and "build/**" only the top-level
// build directory.
type GlobFilter struct {
	normalizedPatterns []string
}

// NewGlobFilter creates a new GlobFilter with the given patterns.
// No patterns ignores nothing.
func NewGlobFilter(patterns ...string) (*GlobFilter, error) {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		lower := strings.ToLower(filepath.ToSlash(pattern))
		if !doublestar.ValidatePattern(lower) {
			return nil, errors.Wrapf(ErrInvalidPattern, "%q", pattern)
		}

		normalized = append(normalized, lower)
	}

	return &GlobFilter{normalizedPatterns: normalized}, nil
}

// Ignored returns true if relativePath matches any pattern.
// Matching is case-insensitive.
func (f *GlobFilter) Ignored(relativePath string) bool {
	if len(f.normalizedPatterns) == 0 || relativePath == "" {
		return false
	}

	normalizedPath := strings.ToLower(filepath.ToSlash(relativePath))
	base := path.Base(normalizedPath)

	for _, pattern := range f.normalizedPatterns {
		if matched, _ := doublestar.Match(pattern, normalizedPath); matched {
			return true
		}

		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// Patterns returns the normalized patterns.
func (f *GlobFilter) Patterns() []string {
	return append([]string(nil), f.normalizedPatterns...)
}
