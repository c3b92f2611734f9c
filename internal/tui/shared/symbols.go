package shared

import "github.com/joe/dirpoll/internal/watcher"

// ChangeSymbol returns the marker for a change kind, with ASCII fallback.
func ChangeSymbol(kind watcher.EventKind) string {
	switch kind {
	case watcher.Create:
		return pick("+", "+")
	case watcher.Modify:
		return pick("●", "*")
	case watcher.Delete:
		return pick("−", "-")
	default:
		return pick("?", "?")
	}
}

// ErrorSymbol returns a cross mark with ASCII fallback.
func ErrorSymbol() string {
	return pick("✗", "[x]")
}

// PausedSymbol returns a pause mark with ASCII fallback.
func PausedSymbol() string {
	return pick("⏸", "[p]")
}

func pick(fancy, ascii string) string {
	if unicodeDisabled {
		return ascii
	}

	return fancy
}
