package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C or the quit
	// menu entry).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoWizard is returned when the runner has nothing to drive.
	ErrNoWizard = errors.New("tui: wizard is required")
)
