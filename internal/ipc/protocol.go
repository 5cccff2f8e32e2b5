package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing               CommandType = "PING"
	CommandGetStatus          CommandType = "GET_STATUS"
	CommandListWindows        CommandType = "LIST_WINDOWS"
	CommandCreateWindow       CommandType = "CREATE_WINDOW"
	CommandRequestSurfaceSize CommandType = "REQUEST_SURFACE_SIZE"
	CommandCloseWindow        CommandType = "CLOSE_WINDOW"
	CommandPollEvents         CommandType = "POLL_EVENTS"
)

// DefaultPollMax bounds POLL_EVENTS when the payload names no maximum.
const DefaultPollMax = 64

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string    `json:"backend"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	DaemonRunning bool      `json:"daemon_running"`
	Stats         app.Stats `json:"stats"`
}

// WindowInfo describes one window as cached by the application.
type WindowInfo struct {
	ID          uint64  `json:"id"`
	Width       uint32  `json:"width"`
	Height      uint32  `json:"height"`
	X           int32   `json:"x"`
	Y           int32   `json:"y"`
	ScaleFactor float64 `json:"scale_factor"`
	Closed      bool    `json:"closed"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// CreateWindowPayload overrides the configured window defaults. Zero or
// nil fields keep the default.
type CreateWindowPayload struct {
	Title       string  `json:"title,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Decorations *bool   `json:"decorations,omitempty"`
	Resizable   *bool   `json:"resizable,omitempty"`
	Transparent *bool   `json:"transparent,omitempty"`
	Maximized   *bool   `json:"maximized,omitempty"`
	Visible     *bool   `json:"visible,omitempty"`
	AlwaysOnTop *bool   `json:"always_on_top,omitempty"`
}

// RequestSurfaceSizePayload represents the payload for REQUEST_SURFACE_SIZE
type RequestSurfaceSizePayload struct {
	WindowID uint64 `json:"window_id"`
	Width    uint32 `json:"width"`
	Height   uint32 `json:"height"`
}

// WindowIDPayload names a single window.
type WindowIDPayload struct {
	WindowID uint64 `json:"window_id"`
}

// PollEventsPayload represents the payload for POLL_EVENTS
type PollEventsPayload struct {
	Max int `json:"max,omitempty"`
}

// eventsData is the server-side form of POLL_EVENTS data.
type eventsData struct {
	Events []event.WindowEvent `json:"events"`
}

// EventsData represents the data returned by POLL_EVENTS
type EventsData struct {
	Events []event.Record `json:"events"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	resp := &Response{
		Status: "OK",
	}

	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		resp.Data = dataBytes
	}

	return resp, nil
}

// NewErrorResponse creates an error response
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a JSON request
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal serializes the response to JSON
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
