// Package mcp exposes the running bridge to MCP clients over stdio. Every
// tool is a thin wrapper around the daemon's IPC protocol.
package mcp

import (
	"context"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

const (
	ServerName    = "winbridge"
	ServerVersion = "0.1.0"

	defaultWaitTimeout  = 30 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// Bridge is the part of the IPC client the tools need.
type Bridge interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	CreateWindow(p ipc.CreateWindowPayload) (*ipc.WindowInfo, error)
	RequestSurfaceSize(windowID uint64, width, height uint32) error
	CloseWindow(windowID uint64) error
	PollEvents(limit int) ([]event.Record, error)
}

var _ Bridge = (*ipc.Client)(nil)

// Server is the MCP server for a winbridge daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	bridge    Bridge
	logger    *slog.Logger

	pollInterval time.Duration
}

// NewServer creates an MCP server that forwards to bridge.
func NewServer(bridge Bridge, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		bridge:       bridge,
		logger:       logger.With("component", "mcp"),
		pollInterval: defaultPollInterval,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the bridge daemon's state: backend, uptime, window counts, queued actions and events, and failure counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List windows created through the bridge with their id, surface size, outer position and scale factor.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create a native window on the bridge's event loop. Unset attributes use the daemon's configured defaults. Returns the new window's id and geometry once the loop has created it.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Ask the platform to resize a window's surface. The request is asynchronous; a Resized event reports the size actually applied.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Later operations on it fail; its id stays listed with closed=true.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "poll_events",
		Description: "Drain queued window events in arrival order. Draining is destructive: events filtered out by window_id or types are discarded.",
	}, s.handlePollEvents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wait_for_event",
		Description: "Poll the event queue until an event of the given type arrives (optionally for one window) or the timeout expires. Returns every event drained while waiting.",
	}, s.handleWaitForEvent)
}
