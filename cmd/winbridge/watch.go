package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/winbridge/internal/tui"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	interval := fs.Duration("interval", tui.DefaultInterval, "Daemon poll interval")
	tail := fs.Int("tail", tui.DefaultMaxEvents, "Events kept in the event tab")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge watch [--interval D] [--tail N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live monitor of windows, events and loop statistics.")
		fmt.Fprintln(os.Stderr, "The monitor drains the daemon's event queue while it runs.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch tabs")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Select window")
		fmt.Fprintln(os.Stderr, "  x          Close selected window")
		fmt.Fprintln(os.Stderr, "  c          Clear the event tail")
		fmt.Fprintln(os.Stderr, "  p          Pause polling")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	err := tui.Run(newClient(), tui.Options{Interval: *interval, MaxEvents: *tail})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

