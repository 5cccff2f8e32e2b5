package mcp

import (
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeClosed bool `json:"include_closed,omitempty" jsonschema:"Include windows that have been closed (default: false)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// CreateWindowInput is the input for the create_window tool. Unset fields
// fall back to the daemon's configured window defaults.
type CreateWindowInput struct {
	Title       string  `json:"title,omitempty" jsonschema:"Window title"`
	Width       float64 `json:"width,omitempty" jsonschema:"Surface width in logical units"`
	Height      float64 `json:"height,omitempty" jsonschema:"Surface height in logical units"`
	Decorations *bool   `json:"decorations,omitempty" jsonschema:"Draw window manager decorations"`
	Resizable   *bool   `json:"resizable,omitempty" jsonschema:"Allow the user to resize the window"`
	Transparent *bool   `json:"transparent,omitempty" jsonschema:"Request a transparent surface"`
	Maximized   *bool   `json:"maximized,omitempty" jsonschema:"Start maximized"`
	Visible     *bool   `json:"visible,omitempty" jsonschema:"Map the window on creation"`
	AlwaysOnTop *bool   `json:"always_on_top,omitempty" jsonschema:"Keep the window above others"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID uint64 `json:"window_id" jsonschema:"Window id returned by create_window or list_windows"`
	Width    uint32 `json:"width" jsonschema:"New surface width in physical pixels"`
	Height   uint32 `json:"height" jsonschema:"New surface height in physical pixels"`
}

// ResizeWindowOutput is the output for the resize_window tool.
type ResizeWindowOutput struct {
	WindowID  uint64 `json:"window_id"`
	Requested bool   `json:"requested"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	WindowID uint64 `json:"window_id" jsonschema:"Window id to close"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	WindowID uint64 `json:"window_id"`
	Closed   bool   `json:"closed"`
}

// PollEventsInput is the input for the poll_events tool.
type PollEventsInput struct {
	Max      int      `json:"max,omitempty" jsonschema:"Maximum number of events to drain (default: 64)"`
	WindowID uint64   `json:"window_id,omitempty" jsonschema:"Only return events for this window. Other drained events are discarded."`
	Types    []string `json:"types,omitempty" jsonschema:"Only return events of these types (e.g. Resized, KeyboardInput). Other drained events are discarded."`
}

// PollEventsOutput is the output for the poll_events tool.
type PollEventsOutput struct {
	Events    []event.Record `json:"events"`
	Drained   int            `json:"drained"`
	Discarded int            `json:"discarded"`
}

// WaitForEventInput is the input for the wait_for_event tool.
type WaitForEventInput struct {
	Type     string `json:"type" jsonschema:"Event type to wait for (e.g. CloseRequested, Resized)"`
	WindowID uint64 `json:"window_id,omitempty" jsonschema:"Only match events for this window"`
	Timeout  int    `json:"timeout,omitempty" jsonschema:"Timeout in seconds (default: 30)"`
}

// WaitForEventOutput is the output for the wait_for_event tool. Events
// holds everything drained while waiting, in order.
type WaitForEventOutput struct {
	Found  bool           `json:"found"`
	Event  *event.Record  `json:"event,omitempty"`
	Events []event.Record `json:"events"`
}
