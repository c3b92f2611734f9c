package tui

import (
	"fmt"
	"strings"

	"github.com/joe/dirpoll/internal/tui/shared"
	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/formatters"
)

// Layout budget for the fixed parts of the view.
const (
	headerLines   = 6
	footerLines   = 2
	minLogEntries = 5
	defaultWidth  = 80
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(shared.RenderTitle("dirpoll"))
	b.WriteString("  ")
	b.WriteString(shared.RenderDim(fmt.Sprintf("every %s", formatters.FormatDuration(m.ctrl.Interval()))))
	b.WriteString("\n")
	b.WriteString(m.renderRoots())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderCounters())
	b.WriteString("\n\n")

	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	b.WriteString(shared.RenderWidgetBox("Activity", m.renderActivity(), width))

	if problems := shared.RenderErrorList(shared.ErrorListConfig{
		Problems: m.problems,
		MaxWidth: width - 8, //nolint:mnd // box borders, padding and indent
	}); problems != "" {
		b.WriteString("\n")
		b.WriteString(shared.RenderWidgetBox("Problems", strings.TrimRight(problems, "\n"), width))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(shared.RenderError("Error: " + m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderRoots() string {
	roots := m.ctrl.Roots()
	if len(roots) == 0 {
		return shared.RenderDim("no roots registered")
	}

	return shared.RenderLabel("Watching: ") + strings.Join(roots, ", ")
}

func (m Model) renderStatus() string {
	switch {
	case m.paused:
		return shared.RenderWarning(shared.PausedSymbol() + " paused")
	case m.scanning:
		return fmt.Sprintf("%s scanning (cycle %d)", m.spinner.View(), m.cycle)
	case m.lastComplete.IsZero():
		return shared.RenderDim("waiting for the first scan")
	}

	interval := m.ctrl.Interval()
	elapsed := m.clock().Sub(m.lastComplete)
	remaining := max(interval-elapsed, 0)

	fraction := 1.0
	if interval > 0 {
		fraction = float64(elapsed) / float64(interval)
	}

	return fmt.Sprintf("next scan in %-6s %s  %s",
		formatters.FormatDuration(remaining),
		shared.RenderProgress(m.progress, min(fraction, 1)),
		shared.RenderDim(fmt.Sprintf("last took %s, %d entries",
			formatters.FormatDuration(m.lastDuration), m.lastRecords)),
	)
}

func (m Model) renderCounters() string {
	stats := m.ctrl.Stats()

	line := fmt.Sprintf("%s  %s  %s  %s",
		shared.ChangeStyle(watcher.Create).Render(fmt.Sprintf("%s %d created", shared.ChangeSymbol(watcher.Create), m.created)),
		shared.ChangeStyle(watcher.Modify).Render(fmt.Sprintf("%s %d modified", shared.ChangeSymbol(watcher.Modify), m.modified)),
		shared.ChangeStyle(watcher.Delete).Render(fmt.Sprintf("%s %d deleted", shared.ChangeSymbol(watcher.Delete), m.deleted)),
		shared.RenderDim(formatters.FormatCount(int(stats.Cycles), "cycle")),
	)

	if dropped := m.bridge.Dropped(); dropped > 0 {
		line += "  " + shared.RenderWarning(fmt.Sprintf("%d updates dropped", dropped))
	}

	return line
}

func (m Model) renderActivity() string {
	if len(m.activity) == 0 {
		return shared.RenderDim("no changes yet")
	}

	entries := minLogEntries
	if m.height > 0 {
		entries = max(m.height-headerLines-footerLines-4, minLogEntries) //nolint:mnd // box chrome
	}

	return shared.RenderActivityLog("", m.activity, entries)
}
