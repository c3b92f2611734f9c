// Package tui is the live terminal view of a running watcher.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/dirpoll/internal/tui/shared"
	"github.com/joe/dirpoll/internal/watcher"
)

// Controller is the part of the watcher the live view drives.
type Controller interface {
	Start() (*watcher.Watcher, error)
	Stop() *watcher.Watcher
	IsRunning() bool
	Roots() []string
	Interval() time.Duration
	Stats() watcher.Stats
}

// Model represents the TUI state
type Model struct {
	ctrl   Controller
	bridge *shared.EventBridge
	clock  func() time.Time

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int

	activity []string
	problems []shared.Problem
	created  int
	modified int
	deleted  int

	cycle        int64
	scanning     bool
	paused       bool
	lastComplete time.Time
	lastDuration time.Duration
	lastRecords  int

	err      error
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for the next-scan countdown.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) {
		m.clock = clock
	}
}

// NewModel creates the live view for ctrl. bridge must be registered as the
// watcher's emitter and as a sink on every root.
func NewModel(ctrl Controller, bridge *shared.EventBridge, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(shared.PrimaryColor())

	m := Model{
		ctrl:     ctrl,
		bridge:   bridge,
		clock:    time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		progress: shared.NewProgressModel(shared.ProgressBarWidth),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Init starts listening to the bridge and ticking the countdown.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.ListenCmd(),
		m.spinner.Tick,
		shared.TickCmd(),
	)
}

// Activity returns the recent activity lines, oldest first.
func (m Model) Activity() []string {
	return m.activity
}

// Counts returns the number of creations, modifications and deletions seen.
func (m Model) Counts() (created, modified, deleted int) {
	return m.created, m.modified, m.deleted
}

// Paused reports whether the user paused the watcher.
func (m Model) Paused() bool {
	return m.paused
}

// Problems returns the recent problems, oldest first.
func (m Model) Problems() []shared.Problem {
	return m.problems
}

// Scanning reports whether a cycle is in progress.
func (m Model) Scanning() bool {
	return m.scanning
}

// Err returns the last error raised by a key action.
func (m Model) Err() error {
	return m.err
}
