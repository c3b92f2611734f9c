package errors_test

import (
	"strings"
	"testing"

	"github.com/joe/dirpoll/pkg/errors"
)

func TestErrorCategory_CategoriesAreDistinct(t *testing.T) {
	t.Parallel()

	categories := []errors.ErrorCategory{
		errors.CategoryConfig,
		errors.CategoryPath,
		errors.CategoryPermission,
		errors.CategoryRemote,
		errors.CategoryUnknown,
	}

	seen := make(map[errors.ErrorCategory]bool)
	for _, category := range categories {
		if seen[category] {
			t.Errorf("duplicate category %q", category)
		}

		seen[category] = true
	}
}

func TestActionableError_Accessors(t *testing.T) {
	t.Parallel()

	err := errors.NewActionableError(
		"stat /srv: no such file or directory",
		errors.CategoryPath,
		[]string{"first", "second"},
		"/srv",
	)

	if err.Error() != "stat /srv: no such file or directory" {
		t.Errorf("unexpected Error(): %q", err.Error())
	}

	if err.OriginalError() != err.Error() {
		t.Errorf("OriginalError() %q differs from Error() %q", err.OriginalError(), err.Error())
	}

	if err.Category() != errors.CategoryPath {
		t.Errorf("unexpected category %q", err.Category())
	}

	if err.AffectedPath() != "/srv" {
		t.Errorf("unexpected path %q", err.AffectedPath())
	}

	if len(err.Suggestions()) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(err.Suggestions()))
	}
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "plain error",
			err:      errorString("plain"),
			expected: "",
		},
		{
			name:     "no suggestions",
			err:      errors.NewActionableError("x", errors.CategoryUnknown, nil, ""),
			expected: "",
		},
		{
			name: "bulleted list",
			err: errors.NewActionableError(
				"x", errors.CategoryUnknown, []string{"one", "two"}, "",
			),
			expected: "  • one\n  • two",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := errors.FormatSuggestions(tc.err)
			if got != tc.expected {
				t.Errorf("FormatSuggestions() = %q, want %q", got, tc.expected)
			}

			if strings.Count(got, "•") != strings.Count(tc.expected, "•") {
				t.Errorf("unexpected bullet count in %q", got)
			}
		})
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }
