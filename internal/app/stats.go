package app

import "sync/atomic"

// Stats is a snapshot of application counters.
type Stats struct {
	State           string `json:"state"`
	LoopThread      int    `json:"loop_thread"`
	Windows         int    `json:"windows"`
	OpenWindows     int    `json:"open_windows"`
	PendingActions  int    `json:"pending_actions"`
	PendingEvents   int    `json:"pending_events"`
	ActionsHandled  uint64 `json:"actions_handled"`
	ActionsDropped  uint64 `json:"actions_dropped"`
	WindowsCreated  uint64 `json:"windows_created"`
	CreateFailures  uint64 `json:"create_failures"`
	ResizesDropped  uint64 `json:"resizes_dropped"`
	EventsPublished uint64 `json:"events_published"`
	PanicsRecovered uint64 `json:"panics_recovered"`
}

type counters struct {
	actionsHandled  atomic.Uint64
	actionsDropped  atomic.Uint64
	windowsCreated  atomic.Uint64
	createFailures  atomic.Uint64
	resizesDropped  atomic.Uint64
	panicsRecovered atomic.Uint64
}
