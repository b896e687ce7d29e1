package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the launcher and blocks until it closes. It returns the command
// that was executed, if any.
func Run(ctx context.Context, cfg Config) (*Outcome, error) {
	m := New(cfg)
	m.ctx = ctx

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run launcher: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Outcome(), nil
	}
	return nil, nil
}
