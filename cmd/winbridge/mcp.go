package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winbridge/internal/logging"
	"github.com/1broseidon/winbridge/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winbridge mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winbridge mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winbridge mcp serve")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Start the MCP server on stdio. Tools forward to a running")
		fmt.Fprintln(os.Stdout, "'winbridge daemon' over its IPC socket.")
		return 0
	}

	res, err := loadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// Stdout carries the protocol; logs go to stderr or the log file.
	opts := logging.FromConfig(res.Config)
	opts.Stderr = os.Stderr
	logger, closer, err := logging.New(opts)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closer.Close()

	server := mcp.NewServer(newClient(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Error("MCP server error", "error", err)
		return 1
	}
	return 0
}
