package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath, 5*time.Second)
}

// NewClientAt creates a client for an explicit socket path. The timeout
// covers the whole round trip.
func NewClientAt(socketPath string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves every window the application has registered.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// CreateWindow creates a window and waits until the loop reports it.
func (c *Client) CreateWindow(p CreateWindowPayload) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.call(CommandCreateWindow, p, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RequestSurfaceSize asks for a new surface size. The result arrives as a
// Resized event, if at all.
func (c *Client) RequestSurfaceSize(windowID uint64, width, height uint32) error {
	return c.call(CommandRequestSurfaceSize, RequestSurfaceSizePayload{
		WindowID: windowID,
		Width:    width,
		Height:   height,
	}, nil)
}

// CloseWindow closes a window on the loop thread.
func (c *Client) CloseWindow(windowID uint64) error {
	return c.call(CommandCloseWindow, WindowIDPayload{WindowID: windowID}, nil)
}

// PollEvents removes up to limit queued events. Zero uses DefaultPollMax.
func (c *Client) PollEvents(limit int) ([]event.Record, error) {
	var data EventsData
	if err := c.call(CommandPollEvents, PollEventsPayload{Max: limit}, &data); err != nil {
		return nil, err
	}
	return data.Events, nil
}
