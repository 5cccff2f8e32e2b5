package tui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

type fakeSource struct {
	statusErr error
	windows   []ipc.WindowInfo
	events    []event.Record
	closed    []uint64
	polls     int
}

func (f *fakeSource) GetStatus() (*ipc.StatusData, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &ipc.StatusData{Backend: "headless", DaemonRunning: true, Stats: app.Stats{State: "running", Windows: len(f.windows)}}, nil
}

func (f *fakeSource) ListWindows() ([]ipc.WindowInfo, error) { return f.windows, nil }

func (f *fakeSource) PollEvents(int) ([]event.Record, error) {
	f.polls++
	evs := f.events
	f.events = nil
	return evs, nil
}

func (f *fakeSource) CloseWindow(id uint64) error {
	f.closed = append(f.closed, id)
	return nil
}

func resized(id uint64) event.Record {
	return event.Record{WindowID: id, Type: "Resized", Tag: uint32(event.TypeResized), Payload: json.RawMessage(`{"width":640,"height":480}`)}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step runs cmd and feeds its message back into the model.
func step(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(model)
}

func update(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestRefreshAppliesSnapshot(t *testing.T) {
	src := &fakeSource{
		windows: []ipc.WindowInfo{{ID: 1, Width: 800, Height: 600, ScaleFactor: 1}},
		events:  []event.Record{resized(1)},
	}
	m := newModel(src, Options{})
	m = step(t, m, m.Init())

	if !m.connected || m.status.Backend != "headless" {
		t.Fatalf("connected=%v status=%+v", m.connected, m.status)
	}
	if len(m.windows) != 1 || len(m.events) != 1 || m.received != 1 {
		t.Fatalf("windows=%d events=%d received=%d", len(m.windows), len(m.events), m.received)
	}
}

func TestDisconnectedDaemon(t *testing.T) {
	src := &fakeSource{statusErr: errors.New("failed to connect to daemon")}
	m := newModel(src, Options{})
	m = step(t, m, m.Init())

	if m.connected {
		t.Fatal("connected with failing status")
	}
	if src.polls != 0 {
		t.Fatal("events polled without a daemon")
	}
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 20})
	if !strings.Contains(m.View(), "daemon not running") {
		t.Fatalf("view missing disconnected status:\n%s", m.View())
	}
}

func TestEventTailIsBounded(t *testing.T) {
	src := &fakeSource{}
	m := newModel(src, Options{MaxEvents: 3})
	for i := uint64(1); i <= 5; i++ {
		m.apply(snapshotMsg{status: &ipc.StatusData{}, events: []event.Record{resized(i)}})
	}
	if len(m.events) != 3 || m.events[0].WindowID != 3 || m.events[2].WindowID != 5 {
		t.Fatalf("events = %+v", m.events)
	}
	if m.received != 5 {
		t.Fatalf("received = %d, want 5", m.received)
	}
}

func TestTabNavigation(t *testing.T) {
	m := newModel(&fakeSource{}, Options{})
	tests := []struct {
		key  string
		want Tab
	}{
		{"tab", TabEvents},
		{"tab", TabStats},
		{"tab", TabWindows},
		{"shift+tab", TabStats},
		{"1", TabWindows},
		{"2", TabEvents},
	}
	for _, tt := range tests {
		m, _ = update(m, key(tt.key))
		if m.activeTab != tt.want {
			t.Fatalf("after %q tab = %v, want %v", tt.key, m.activeTab, tt.want)
		}
	}
}

func TestPauseSkipsRefresh(t *testing.T) {
	src := &fakeSource{}
	m := newModel(src, Options{})
	m, _ = update(m, key("p"))
	if !m.paused {
		t.Fatal("not paused")
	}

	// A paused tick only schedules the next tick.
	_, cmd := update(m, tickMsg{})
	if cmd == nil {
		t.Fatal("paused tick dropped the tick chain")
	}
	if src.polls != 0 {
		t.Fatal("paused monitor polled events")
	}
}

func TestCloseSelectedWindow(t *testing.T) {
	src := &fakeSource{windows: []ipc.WindowInfo{{ID: 1}, {ID: 2}, {ID: 3, Closed: true}}}
	m := newModel(src, Options{})
	m = step(t, m, m.Init())

	m, _ = update(m, key("down"))
	m, cmd := update(m, key("x"))
	m = step(t, m, cmd)
	if len(src.closed) != 1 || src.closed[0] != 2 {
		t.Fatalf("closed = %v, want [2]", src.closed)
	}

	m, _ = update(m, key("down"))
	if _, cmd = update(m, key("x")); cmd != nil {
		t.Fatal("close offered for an already closed window")
	}
}

func TestClearEvents(t *testing.T) {
	m := newModel(&fakeSource{}, Options{})
	m.apply(snapshotMsg{status: &ipc.StatusData{}, events: []event.Record{resized(1)}})

	m, _ = update(m, key("c"))
	if len(m.events) != 1 {
		t.Fatal("events cleared outside the events tab")
	}
	m, _ = update(m, key("2"))
	m, _ = update(m, key("c"))
	if len(m.events) != 0 {
		t.Fatal("events not cleared")
	}
}

func TestViewRendersActiveTab(t *testing.T) {
	src := &fakeSource{
		windows: []ipc.WindowInfo{{ID: 7, Width: 640, Height: 480, ScaleFactor: 2}},
		events:  []event.Record{resized(7)},
	}
	m := newModel(src, Options{})
	m = step(t, m, m.Init())
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 30})

	if v := m.View(); !strings.Contains(v, "640x480") || !strings.Contains(v, "backend:headless") {
		t.Fatalf("windows view:\n%s", v)
	}
	m, _ = update(m, key("2"))
	if v := m.View(); !strings.Contains(v, "Resized") {
		t.Fatalf("events view:\n%s", v)
	}
	m, _ = update(m, key("3"))
	if v := m.View(); !strings.Contains(v, "events received") {
		t.Fatalf("stats view:\n%s", v)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long", 5, "too …"},
		{"abc", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
