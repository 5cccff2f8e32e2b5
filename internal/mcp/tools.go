package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.bridge.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.bridge.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]ipc.WindowInfo, 0, len(windows))}
	for _, w := range windows {
		if w.Closed && !args.IncludeClosed {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	return nil, out, nil
}

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	if args.Width < 0 || args.Height < 0 {
		return nil, ipc.WindowInfo{}, fmt.Errorf("width and height must not be negative")
	}
	if (args.Width == 0) != (args.Height == 0) {
		return nil, ipc.WindowInfo{}, fmt.Errorf("width and height must be set together")
	}

	info, err := s.bridge.CreateWindow(ipc.CreateWindowPayload{
		Title:       args.Title,
		Width:       args.Width,
		Height:      args.Height,
		Decorations: args.Decorations,
		Resizable:   args.Resizable,
		Transparent: args.Transparent,
		Maximized:   args.Maximized,
		Visible:     args.Visible,
		AlwaysOnTop: args.AlwaysOnTop,
	})
	if err != nil {
		s.logger.Warn("create_window failed", "title", args.Title, "error", err)
		return nil, ipc.WindowInfo{}, err
	}
	s.logger.Info("create_window", "window", info.ID, "width", info.Width, "height", info.Height)
	return nil, *info, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ResizeWindowOutput, error) {
	if args.Width == 0 || args.Height == 0 {
		return nil, ResizeWindowOutput{}, fmt.Errorf("width and height must be positive")
	}
	if err := s.bridge.RequestSurfaceSize(args.WindowID, args.Width, args.Height); err != nil {
		return nil, ResizeWindowOutput{}, err
	}
	return nil, ResizeWindowOutput{WindowID: args.WindowID, Requested: true}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := s.bridge.CloseWindow(args.WindowID); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	s.logger.Info("close_window", "window", args.WindowID)
	return nil, CloseWindowOutput{WindowID: args.WindowID, Closed: true}, nil
}

func (s *Server) handlePollEvents(_ context.Context, _ *mcpsdk.CallToolRequest, args PollEventsInput) (*mcpsdk.CallToolResult, PollEventsOutput, error) {
	if args.Max < 0 {
		return nil, PollEventsOutput{}, fmt.Errorf("max must not be negative")
	}
	f, err := newEventFilter(args.WindowID, args.Types)
	if err != nil {
		return nil, PollEventsOutput{}, err
	}

	records, err := s.bridge.PollEvents(args.Max)
	if err != nil {
		return nil, PollEventsOutput{}, err
	}

	out := PollEventsOutput{Events: make([]event.Record, 0, len(records)), Drained: len(records)}
	for _, r := range records {
		if f.match(r) {
			out.Events = append(out.Events, r)
		}
	}
	out.Discarded = out.Drained - len(out.Events)
	return nil, out, nil
}

func (s *Server) handleWaitForEvent(ctx context.Context, _ *mcpsdk.CallToolRequest, args WaitForEventInput) (*mcpsdk.CallToolResult, WaitForEventOutput, error) {
	if args.Type == "" {
		return nil, WaitForEventOutput{}, fmt.Errorf("type is required")
	}
	f, err := newEventFilter(args.WindowID, []string{args.Type})
	if err != nil {
		return nil, WaitForEventOutput{}, err
	}

	timeout := defaultWaitTimeout
	if args.Timeout > 0 {
		timeout = time.Duration(args.Timeout) * time.Second
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	out := WaitForEventOutput{Events: []event.Record{}}
	for {
		records, err := s.bridge.PollEvents(ipc.DefaultPollMax)
		if err != nil {
			return nil, out, err
		}
		for i, r := range records {
			if f.match(r) {
				// Everything drained in this batch is handed back, including
				// events after the match.
				out.Events = append(out.Events, records...)
				out.Found = true
				out.Event = &out.Events[len(out.Events)-len(records)+i]
				return nil, out, nil
			}
		}
		out.Events = append(out.Events, records...)
		if len(records) == ipc.DefaultPollMax {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, out, ctx.Err()
		case <-deadline.C:
			s.logger.Debug("wait_for_event timed out", "type", args.Type, "drained", len(out.Events))
			return nil, out, nil
		case <-ticker.C:
		}
	}
}

// eventFilter matches records by window and type. Zero values match all.
type eventFilter struct {
	windowID uint64
	types    map[string]bool
}

func newEventFilter(windowID uint64, types []string) (eventFilter, error) {
	f := eventFilter{windowID: windowID}
	if len(types) == 0 {
		return f, nil
	}
	f.types = make(map[string]bool, len(types))
	for _, name := range types {
		if _, ok := event.ParseType(name); !ok {
			return eventFilter{}, fmt.Errorf("unknown event type %q", name)
		}
		f.types[name] = true
	}
	return f, nil
}

func (f eventFilter) match(r event.Record) bool {
	if f.windowID != 0 && r.WindowID != f.windowID {
		return false
	}
	return f.types == nil || f.types[r.Type]
}
