package shared

import (
	"fmt"

	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/formatters"
)

// FormatChange renders one activity line, e.g. "+ /srv/data/a.txt (12 B)".
func FormatChange(msg ChangeMsg) string {
	line := ChangeSymbol(msg.Kind) + " " + msg.Record.Path

	switch {
	case msg.Record.IsDir:
		line += "/"
	case msg.Kind == watcher.Modify && msg.Old.Size != msg.Record.Size:
		line += fmt.Sprintf(" (%s -> %s)",
			formatters.FormatBytes(msg.Old.Size), formatters.FormatBytes(msg.Record.Size))
	case msg.Kind != watcher.Delete:
		line += fmt.Sprintf(" (%s)", formatters.FormatBytes(msg.Record.Size))
	}

	return ChangeStyle(msg.Kind).Render(line)
}

// TruncatePath shortens path to maxWidth by eliding its middle.
func TruncatePath(path string, maxWidth int) string {
	const ellipsis = "..."

	runes := []rune(path)
	if maxWidth <= len(ellipsis) || len(runes) <= maxWidth {
		return path
	}

	keep := maxWidth - len(ellipsis)
	head := keep / 2 //nolint:mnd // half on each side

	return string(runes[:head]) + ellipsis + string(runes[len(runes)-(keep-head):])
}
