package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

func runEvents(args []string) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	follow := fs.Bool("follow", false, "Keep polling until interrupted")
	limit := fs.Int("max", ipc.DefaultPollMax, "Events drained per poll")
	interval := fs.Duration("interval", 200*time.Millisecond, "Poll interval with --follow")
	asJSON := fs.Bool("json", false, "One JSON object per line (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge events [--follow] [--max N] [--interval D] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Drain queued window events in arrival order. Draining is destructive:")
		fmt.Fprintln(os.Stderr, "other consumers will not see the printed events.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *limit <= 0 || *interval <= 0 {
		fmt.Fprintln(os.Stderr, "--max and --interval must be positive")
		return 2
	}

	lines := *asJSON || !term.IsTerminal(int(os.Stdout.Fd()))
	client := newClient()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		records, err := client.PollEvents(*limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := writeEvents(os.Stdout, records, lines); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !*follow {
			return 0
		}
		// A full batch means more are likely queued.
		if len(records) == *limit {
			continue
		}
		select {
		case <-sigCh:
			return 0
		case <-time.After(*interval):
		}
	}
}

func writeEvents(w io.Writer, records []event.Record, lines bool) error {
	if lines {
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range records {
		payload := string(r.Payload)
		if payload == "{}" || payload == "null" {
			payload = ""
		}
		if _, err := fmt.Fprintf(w, "window %-6d %-20s %s\n", r.WindowID, r.Type, payload); err != nil {
			return err
		}
	}
	return nil
}
