package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

type fakeBridge struct {
	mu      sync.Mutex
	windows []ipc.WindowInfo
	created []ipc.CreateWindowPayload
	resized []ipc.RequestSurfaceSizePayload
	closed  []uint64
	batches [][]event.Record
	polls   int
	err     error
}

func (f *fakeBridge) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{Backend: "headless", DaemonRunning: true, Stats: app.Stats{State: "running", Windows: len(f.windows)}}, nil
}

func (f *fakeBridge) ListWindows() ([]ipc.WindowInfo, error) {
	return f.windows, f.err
}

func (f *fakeBridge) CreateWindow(p ipc.CreateWindowPayload) (*ipc.WindowInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	info := ipc.WindowInfo{ID: uint64(len(f.created)), Width: uint32(p.Width), Height: uint32(p.Height), ScaleFactor: 1}
	f.windows = append(f.windows, info)
	return &info, nil
}

func (f *fakeBridge) RequestSurfaceSize(id uint64, width, height uint32) error {
	if f.err != nil {
		return f.err
	}
	f.resized = append(f.resized, ipc.RequestSurfaceSizePayload{WindowID: id, Width: width, Height: height})
	return nil
}

func (f *fakeBridge) CloseWindow(id uint64) error {
	if f.err != nil {
		return f.err
	}
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBridge) PollEvents(int) ([]event.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return []event.Record{}, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func record(window uint64, typ event.Type) event.Record {
	return event.Record{WindowID: window, Type: typ.String(), Tag: uint32(typ), Payload: json.RawMessage("{}")}
}

func newTestServer(b Bridge) *Server {
	s := NewServer(b, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.pollInterval = time.Millisecond
	return s
}

func boolPtr(b bool) *bool { return &b }

func TestGetStatus(t *testing.T) {
	s := newTestServer(&fakeBridge{windows: []ipc.WindowInfo{{ID: 1}}})
	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status error: %v", err)
	}
	if out.Backend != "headless" || out.Stats.Windows != 1 {
		t.Fatalf("status = %+v", out)
	}
}

func TestListWindowsHidesClosed(t *testing.T) {
	b := &fakeBridge{windows: []ipc.WindowInfo{{ID: 1}, {ID: 2, Closed: true}, {ID: 3}}}
	s := newTestServer(b)

	tests := []struct {
		name          string
		includeClosed bool
		want          []uint64
	}{
		{"open only", false, []uint64{1, 3}},
		{"include closed", true, []uint64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{IncludeClosed: tt.includeClosed})
			if err != nil {
				t.Fatalf("list_windows error: %v", err)
			}
			if len(out.Windows) != len(tt.want) {
				t.Fatalf("windows = %+v, want ids %v", out.Windows, tt.want)
			}
			for i, id := range tt.want {
				if out.Windows[i].ID != id {
					t.Fatalf("windows[%d].ID = %d, want %d", i, out.Windows[i].ID, id)
				}
			}
		})
	}
}

func TestCreateWindowForwardsAttributes(t *testing.T) {
	b := &fakeBridge{}
	s := newTestServer(b)

	_, out, err := s.handleCreateWindow(context.Background(), nil, CreateWindowInput{
		Title:     "tool",
		Width:     320,
		Height:    200,
		Resizable: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create_window error: %v", err)
	}
	if out.ID != 1 || out.Width != 320 {
		t.Fatalf("window = %+v", out)
	}
	got := b.created[0]
	if got.Title != "tool" || got.Resizable == nil || *got.Resizable || got.Decorations != nil {
		t.Fatalf("payload = %+v", got)
	}
}

func TestCreateWindowValidatesSize(t *testing.T) {
	tests := []struct {
		name string
		in   CreateWindowInput
	}{
		{"negative", CreateWindowInput{Width: -1, Height: 10}},
		{"width only", CreateWindowInput{Width: 10}},
		{"height only", CreateWindowInput{Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBridge{}
			s := newTestServer(b)
			if _, _, err := s.handleCreateWindow(context.Background(), nil, tt.in); err == nil {
				t.Fatal("expected error")
			}
			if len(b.created) != 0 {
				t.Fatal("invalid request reached the daemon")
			}
		})
	}
}

func TestResizeAndClose(t *testing.T) {
	b := &fakeBridge{}
	s := newTestServer(b)

	if _, _, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{WindowID: 4, Width: 0, Height: 10}); err == nil {
		t.Fatal("zero width accepted")
	}
	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{WindowID: 4, Width: 640, Height: 480})
	if err != nil || !out.Requested {
		t.Fatalf("resize_window = %+v, %v", out, err)
	}
	if len(b.resized) != 1 || b.resized[0] != (ipc.RequestSurfaceSizePayload{WindowID: 4, Width: 640, Height: 480}) {
		t.Fatalf("resized = %+v", b.resized)
	}

	_, closed, err := s.handleCloseWindow(context.Background(), nil, CloseWindowInput{WindowID: 4})
	if err != nil || !closed.Closed || len(b.closed) != 1 {
		t.Fatalf("close_window = %+v, %v", closed, err)
	}
}

func TestBridgeErrorsPropagate(t *testing.T) {
	b := &fakeBridge{err: errors.New("Unknown window: 9")}
	s := newTestServer(b)
	_, _, err := s.handleCloseWindow(context.Background(), nil, CloseWindowInput{WindowID: 9})
	if err == nil || !strings.Contains(err.Error(), "Unknown window") {
		t.Fatalf("close_window error = %v", err)
	}
}

func TestPollEventsFilters(t *testing.T) {
	b := &fakeBridge{batches: [][]event.Record{{
		record(1, event.TypeResized),
		record(2, event.TypeResized),
		record(1, event.TypeKeyboardInput),
	}}}
	s := newTestServer(b)

	_, out, err := s.handlePollEvents(context.Background(), nil, PollEventsInput{WindowID: 1, Types: []string{"Resized"}})
	if err != nil {
		t.Fatalf("poll_events error: %v", err)
	}
	if out.Drained != 3 || out.Discarded != 2 || len(out.Events) != 1 || out.Events[0].WindowID != 1 {
		t.Fatalf("poll_events = %+v", out)
	}
}

func TestPollEventsRejectsUnknownType(t *testing.T) {
	b := &fakeBridge{}
	s := newTestServer(b)
	if _, _, err := s.handlePollEvents(context.Background(), nil, PollEventsInput{Types: []string{"Bogus"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if b.polls != 0 {
		t.Fatal("events drained despite invalid filter")
	}
}

func TestWaitForEventFindsMatch(t *testing.T) {
	b := &fakeBridge{batches: [][]event.Record{
		{record(1, event.TypeMoved)},
		{},
		{record(1, event.TypeFocused), record(1, event.TypeCloseRequested), record(1, event.TypeResized)},
	}}
	s := newTestServer(b)

	_, out, err := s.handleWaitForEvent(context.Background(), nil, WaitForEventInput{Type: "CloseRequested", WindowID: 1, Timeout: 5})
	if err != nil {
		t.Fatalf("wait_for_event error: %v", err)
	}
	if !out.Found || out.Event == nil || out.Event.Type != "CloseRequested" {
		t.Fatalf("wait_for_event = %+v", out)
	}
	if len(out.Events) != 4 {
		t.Fatalf("events = %d, want 4", len(out.Events))
	}
}

func TestWaitForEventHonoursContext(t *testing.T) {
	s := newTestServer(&fakeBridge{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, out, err := s.handleWaitForEvent(ctx, nil, WaitForEventInput{Type: "Resized", Timeout: 5})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if out.Found {
		t.Fatal("found without events")
	}
}

func TestWaitForEventRequiresType(t *testing.T) {
	s := newTestServer(&fakeBridge{})
	if _, _, err := s.handleWaitForEvent(context.Background(), nil, WaitForEventInput{}); err == nil {
		t.Fatal("expected error")
	}
}
