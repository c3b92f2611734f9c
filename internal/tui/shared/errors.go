package shared

import (
	"fmt"
	"strings"

	"github.com/joe/dirpoll/pkg/errors"
)

// ErrorLimit is how many problems the live view lists before summarizing.
const ErrorLimit = 3

// Problem is an entry the watcher could not handle: a root that could not be
// walked, an entry skipped during a scan, or a sink that failed.
type Problem struct {
	Path string
	Err  error
}

// ErrorListConfig holds configuration for rendering error lists
type ErrorListConfig struct {
	Problems []Problem

	// Limit is how many problems are rendered; zero means ErrorLimit.
	Limit int

	// MaxWidth is the maximum width for path and error message display
	MaxWidth int

	// ShowSuggestions renders the actionable suggestions under each problem.
	ShowSuggestions bool
}

// RenderErrorList renders problems, most recent last, with actionable suggestions.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Problems) == 0 {
		return ""
	}

	limit := config.Limit
	if limit <= 0 {
		limit = ErrorLimit
	}

	problems := config.Problems
	var builder strings.Builder

	if hidden := len(problems) - limit; hidden > 0 {
		fmt.Fprintf(&builder, "  ... %d earlier problem(s)\n", hidden)
		problems = problems[hidden:]
	}

	enricher := errors.NewEnricher()

	for _, problem := range problems {
		if problem.Err == nil {
			continue
		}

		enrichedErr := enricher.Enrich(problem.Err, problem.Path)

		displayPath := problem.Path
		if config.MaxWidth > 0 {
			displayPath = TruncatePath(problem.Path, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", ErrorSymbol(), ErrorStyle().Render(displayPath))

		errMsg := enrichedErr.Error()
		if config.MaxWidth > 3 && len(errMsg) > config.MaxWidth {
			errMsg = errMsg[:config.MaxWidth-3] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)

		if !config.ShowSuggestions {
			continue
		}

		if suggestions := errors.FormatSuggestions(enrichedErr); suggestions != "" {
			fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
		}
	}

	return builder.String()
}
