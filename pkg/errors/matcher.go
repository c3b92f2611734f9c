package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// categoryPatterns ties a category to the message fragments that identify it.
type categoryPatterns struct {
	category ErrorCategory
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are tried in order, so remote failures that mention a path are
// still reported as remote.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		patterns: []categoryPatterns{
			{CategoryConfig, []string{
				"interval must be positive",
				"invalid ignore pattern",
				"all roots must be on the same filesystem",
				"invalid log level",
				"no roots given",
				"invalid location",
			}},
			{CategoryRemote, []string{
				"ssh connection failed",
				"sftp session creation failed",
				"no ssh authentication methods",
				"unable to authenticate",
				"knownhosts",
				"known hosts",
				"host key",
				"connection refused",
				"no route to host",
				"i/o timeout",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
			}},
			{CategoryPath, []string{
				"path not found",
				"no such file or directory",
				"file not found",
				"file does not exist",
				"not a directory",
			}},
		},
	}
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	patterns []categoryPatterns
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, entry := range m.patterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return entry.category
			}
		}
	}

	return CategoryUnknown
}
