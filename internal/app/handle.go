package app

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
)

// Handle is the thread-safe application handle shared by producers and
// consumers. It outlives individual windows.
type Handle struct {
	actions *actionQueue
	proxy   platform.Proxy
	events  *event.Queue

	mu      sync.RWMutex
	windows map[platform.WindowID]*Window

	state      *atomic.Int32
	loopThread atomic.Int64
	counters   *counters
	logger     *slog.Logger
}

// Send enqueues an action and wakes the loop. It fails with
// ErrApplicationStopped once the loop has exited.
func (h *Handle) Send(a Action) error {
	if err := h.actions.send(a); err != nil {
		h.logger.Error("action rejected", "action", actionName(a), "error", err)
		return err
	}
	h.proxy.WakeUp()
	return nil
}

// Call runs fn on the loop thread.
func (h *Handle) Call(fn func()) error {
	return h.Send(FunctionCall{Fn: fn})
}

// CreateWindow asks the loop to create a window. onCreated runs on the loop
// thread, never on the caller's.
func (h *Handle) CreateWindow(attrs platform.WindowAttributes, onCreated func(*Window)) error {
	return h.Send(CreateWindow{Attributes: attrs, OnCreated: onCreated})
}

func (h *Handle) RequestSurfaceSize(id platform.WindowID, size platform.PhysicalSize) error {
	return h.Send(RequestSurfaceSize{WindowID: id, Size: size})
}

// Exit asks the loop to stop after draining already queued actions.
func (h *Handle) Exit() error {
	return h.Send(Exit{})
}

// WakeUp wakes the loop with nothing queued; the drain is then empty.
func (h *Handle) WakeUp() {
	h.proxy.WakeUp()
}

// PollEvent removes the oldest normalized event. ok is false when none is
// pending.
func (h *Handle) PollEvent() (ev event.WindowEvent, ok bool) {
	return h.events.Poll()
}

// DrainEvents removes up to max pending events; max <= 0 means all.
func (h *Handle) DrainEvents(max int) []event.WindowEvent {
	return h.events.Drain(max)
}

// Window returns the registered window with the given id. Closed windows
// stay registered.
func (h *Handle) Window(id platform.WindowID) (*Window, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	w, ok := h.windows[id]
	return w, ok
}

// Windows returns all registered windows ordered by id.
func (h *Handle) Windows() []*Window {
	h.mu.RLock()
	out := make([]*Window, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (h *Handle) register(w *Window) {
	h.mu.Lock()
	h.windows[w.id] = w
	h.mu.Unlock()
}

// LoopThread returns the OS thread id pumping the loop, or 0 when the loop
// is not running or the platform does not report thread ids.
func (h *Handle) LoopThread() int {
	return int(h.loopThread.Load())
}

// OnLoopThread reports whether the caller runs on the loop thread. It is
// meaningful only for goroutines locked to their OS thread and is always
// true where thread ids are unavailable.
func (h *Handle) OnLoopThread() bool {
	tid := h.loopThread.Load()
	cur := currentThreadID()
	if tid == 0 || cur == 0 {
		return true
	}
	return int64(cur) == tid
}

// Stats returns a snapshot of the application counters.
func (h *Handle) Stats() Stats {
	windows := h.Windows()
	open := 0
	for _, w := range windows {
		if !w.IsClosed() {
			open++
		}
	}
	return Stats{
		State:           State(h.state.Load()).String(),
		LoopThread:      h.LoopThread(),
		Windows:         len(windows),
		OpenWindows:     open,
		PendingActions:  h.actions.len(),
		PendingEvents:   h.events.Len(),
		ActionsHandled:  h.counters.actionsHandled.Load(),
		ActionsDropped:  h.counters.actionsDropped.Load(),
		WindowsCreated:  h.counters.windowsCreated.Load(),
		CreateFailures:  h.counters.createFailures.Load(),
		ResizesDropped:  h.counters.resizesDropped.Load(),
		EventsPublished: h.events.Total(),
		PanicsRecovered: h.counters.panicsRecovered.Load(),
	}
}

func actionName(a Action) string {
	switch a.(type) {
	case FunctionCall:
		return "function_call"
	case CreateWindow:
		return "create_window"
	case RequestSurfaceSize:
		return "request_surface_size"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}
