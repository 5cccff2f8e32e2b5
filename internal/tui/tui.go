// Package tui is a live terminal monitor for a running winbridge daemon.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

const (
	DefaultInterval  = 250 * time.Millisecond
	DefaultMaxEvents = 500
)

// Options configures the monitor.
type Options struct {
	// Interval between daemon polls.
	Interval time.Duration
	// MaxEvents bounds the event tail kept in memory.
	MaxEvents int
}

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return DefaultInterval
	}
	return o.Interval
}

func (o Options) maxEvents() int {
	if o.MaxEvents <= 0 {
		return DefaultMaxEvents
	}
	return o.MaxEvents
}

// Run starts the monitor and blocks until the user quits. The monitor
// drains the daemon's event queue while it runs.
func Run(source Source, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(source, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
