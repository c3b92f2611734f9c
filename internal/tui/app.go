package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// Run shows the live view until the user quits or ctx is cancelled.
// It closes bridge on return.
func Run(ctx context.Context, model Model, opts ...tea.ProgramOption) error {
	defer model.bridge.Close()

	program := tea.NewProgram(model, append(opts, tea.WithContext(ctx))...)

	_, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "live view failed")
	}

	return nil
}
