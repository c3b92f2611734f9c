package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/dirpoll/internal/tui/shared"
	"github.com/joe/dirpoll/internal/watcher"
)

// maxProblems bounds the problem list kept for display.
const maxProblems = 50

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-30, 10), shared.MaxProgressBarWidth) //nolint:mnd // room for the countdown label
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case shared.TickMsg:
		return m, shared.TickCmd()

	case shared.ChangeMsg:
		m.recordChange(msg)
		return m, m.bridge.ListenCmd()

	case shared.WatcherEventMsg:
		m.handleEvent(msg.Event)
		return m, m.bridge.ListenCmd()
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		if m.paused {
			if _, err := m.ctrl.Start(); err != nil {
				m.err = err
				return m, nil
			}

			m.paused = false
			m.err = nil

			return m, nil
		}

		m.ctrl.Stop()
		m.paused = true
		m.scanning = false

		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.activity = nil
		m.problems = nil
		m.created, m.modified, m.deleted = 0, 0, 0

		return m, nil
	}

	return m, nil
}

func (m *Model) recordChange(msg shared.ChangeMsg) {
	switch msg.Kind {
	case watcher.Create:
		m.created++
	case watcher.Modify:
		m.modified++
	case watcher.Delete:
		m.deleted++
	}

	m.activity = append(m.activity, shared.FormatChange(msg))
	if over := len(m.activity) - shared.ActivityLogSize; over > 0 {
		m.activity = m.activity[over:]
	}
}

func (m *Model) handleEvent(event watcher.Event) {
	switch e := event.(type) {
	case watcher.CycleStarted:
		m.cycle = e.Cycle
		m.scanning = true
	case watcher.CycleComplete:
		m.scanning = false
		m.lastComplete = m.clock()
		m.lastDuration = e.Duration
		m.lastRecords = e.Records
	case watcher.RootScanned:
		if e.Err != nil {
			m.addProblem(shared.Problem{Path: e.Root, Err: e.Err})
		}
	case watcher.EntrySkipped:
		m.addProblem(shared.Problem{Path: e.Path, Err: e.Err})
	case watcher.SinkFailed:
		m.addProblem(shared.Problem{Path: e.Path, Err: e.Err})
	}
}

func (m *Model) addProblem(problem shared.Problem) {
	m.problems = append(m.problems, problem)
	if over := len(m.problems) - maxProblems; over > 0 {
		m.problems = m.problems[over:]
	}
}
