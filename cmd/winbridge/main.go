package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/1broseidon/winbridge/internal/config"
	"github.com/1broseidon/winbridge/internal/daemon"
	"github.com/1broseidon/winbridge/internal/ipc"
	"github.com/1broseidon/winbridge/internal/logging"
)

func init() {
	// The event loop must own the process's main thread.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "events":
		os.Exit(runEvents(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winbridge <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the event loop and IPC server (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window create       Create a window")
	fmt.Fprintln(w, "  window list         List windows")
	fmt.Fprintln(w, "  window resize       Request a new surface size")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  events              Drain queued window events")
	fmt.Fprintln(w, "  watch               Open the live monitor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winbridge <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default config file when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// newClient connects to the configured socket, falling back to the default
// socket when the config cannot be read.
func newClient() *ipc.Client {
	cfg, err := config.Load()
	if err != nil || cfg.IPC.SocketPath == "" {
		return ipc.NewClient()
	}
	return ipc.NewClientAt(cfg.IPC.SocketPath, 0)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winbridge/config.yaml)")
	backendName := fs.String("backend", "", "Override the configured backend (auto, x11, headless)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge daemon [--path PATH] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the native event loop in the foreground and serve IPC requests.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the window defaults; SIGINT/SIGTERM stop the loop.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *backendName != "" {
		cfg.Backend = *backendName
	}

	logger, closer, err := logging.New(logging.FromConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closer.Close()
	logger.Info("configuration loaded", "files", len(res.Files), "backend", cfg.Backend)

	err = daemon.Run(context.Background(), daemon.Options{
		Config:     cfg,
		ConfigPath: *path,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := newClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}

	s := status.Stats
	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("backend:          %s\n", status.Backend)
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	fmt.Printf("state:            %s\n", s.State)
	fmt.Printf("windows:          %d (%d open)\n", s.Windows, s.OpenWindows)
	fmt.Printf("pending_actions:  %d\n", s.PendingActions)
	fmt.Printf("pending_events:   %d\n", s.PendingEvents)
	fmt.Printf("actions_dropped:  %d\n", s.ActionsDropped)
	fmt.Printf("create_failures:  %d\n", s.CreateFailures)
	fmt.Printf("resizes_dropped:  %d\n", s.ResizesDropped)
	fmt.Printf("panics_recovered: %d\n", s.PanicsRecovered)
	return 0
}
