package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/taxwise/internal/credit"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the simulator and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, advisor Advisor, initial credit.Inputs, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(New(ctx, advisor, initial), opts...)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("simulator failed: %w", err)
	}
	return nil
}
