package shell

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramOptions select how the program drives the terminal.
type ProgramOptions struct {
	AltScreen bool
	// Headless runs the event loop without a renderer or input, leaving
	// stdin and stdout to the stdio host transport.
	Headless bool
}

// NewProgram creates the bubbletea program for m.
func NewProgram(ctx context.Context, m *Model, opts ProgramOptions) *tea.Program {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	switch {
	case opts.Headless:
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		)
	case opts.AltScreen:
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, programOpts...)
}
