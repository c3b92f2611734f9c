package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryConfig:
		return g.generateConfigSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryRemote:
		return g.generateRemoteSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateConfigSuggestions(_ string) []string {
	return []string{
		"Run 'dirpoll --help' to see the accepted flags and their formats",
		"Intervals take a unit, for example --interval 500ms or --interval 2s",
		"Roots must all be local paths or all sftp:// URLs on the same user@host:port",
	}
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Create it first if it is meant to be watched before it has content: mkdir -p "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Watching needs read and execute (list) permission on every directory in the tree",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	suggestions = append(suggestions, "Unreadable entries are skipped each cycle; use --ignore to leave them out quietly")

	return suggestions
}

func (g *suggestionGenerator) generateRemoteSuggestions(path string) []string {
	suggestions := []string{
		"Check that the host is reachable and runs an SSH server with the SFTP subsystem",
		"Load a key into your agent with 'ssh-add', or place an unencrypted key in ~/.ssh",
		"Add the host key to ~/.ssh/known_hosts, for example by connecting once with 'ssh'",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the remote path is accessible: "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run again with --log-level debug to see each scan cycle",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
