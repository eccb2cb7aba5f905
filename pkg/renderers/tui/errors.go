package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoNavigation is returned by Drive when no navigation target is given.
	ErrNoNavigation = errors.New("tui: navigation is required")
)
