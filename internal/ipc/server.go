package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/runtimepath"
)

// ErrTimeout is returned when the event loop does not answer in time.
var ErrTimeout = errors.New("event loop did not respond in time")

// Application is the part of the application handle the server drives.
type Application interface {
	Stats() app.Stats
	Windows() []*app.Window
	Window(id platform.WindowID) (*app.Window, bool)
	CreateWindow(attrs platform.WindowAttributes, onCreated func(*app.Window)) error
	RequestSurfaceSize(id platform.WindowID, size platform.PhysicalSize) error
	Call(fn func()) error
	DrainEvents(max int) []event.WindowEvent
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath overrides the runtime directory socket.
	SocketPath string
	// Backend is reported by GET_STATUS.
	Backend string
	// Defaults are the attributes CREATE_WINDOW starts from.
	Defaults platform.WindowAttributes
	// Timeout bounds how long a request waits on the event loop.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	app          Application
	backend      string
	defaultsMu   sync.RWMutex
	defaults     platform.WindowAttributes
	timeout      time.Duration
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(application Application, opts ServerOptions) (*Server, error) {
	socketPath, err := runtimepath.ResolveSocketPath(opts.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		app:        application,
		backend:    opts.Backend,
		defaults:   opts.Defaults,
		timeout:    timeout,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("IPC handler panic recovered", "error", err)
		}
	}()

	conn.SetDeadline(time.Now().Add(2 * s.timeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)
	s.logger.Debug("IPC request handled", "command", req.Command, "status", resp.Status)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		return okOrError(NewOKResponse(nil))
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandCreateWindow:
		return s.handleCreateWindow(req.Payload)
	case CommandRequestSurfaceSize:
		return s.handleRequestSurfaceSize(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandPollEvents:
		return s.handlePollEvents(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	return okOrError(NewOKResponse(StatusData{
		Backend:       s.backend,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Stats:         s.app.Stats(),
	}))
}

func (s *Server) handleListWindows() *Response {
	windows := s.app.Windows()
	data := WindowsData{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		data.Windows = append(data.Windows, windowInfo(w))
	}
	return okOrError(NewOKResponse(data))
}

func (s *Server) handleCreateWindow(payload json.RawMessage) *Response {
	var p CreateWindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	if p.Width < 0 || p.Height < 0 {
		return NewErrorResponse("width and height must be non-negative")
	}

	created := make(chan *app.Window, 1)
	if err := s.app.CreateWindow(p.apply(s.Defaults()), func(w *app.Window) {
		created <- w
	}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to create window: %v", err))
	}

	select {
	case w := <-created:
		return okOrError(NewOKResponse(windowInfo(w)))
	case <-time.After(s.timeout):
		return NewErrorResponse(fmt.Sprintf("Failed to create window: %v (see daemon log)", ErrTimeout))
	}
}

func (s *Server) handleRequestSurfaceSize(payload json.RawMessage) *Response {
	var p RequestSurfaceSizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if _, ok := s.app.Window(platform.WindowID(p.WindowID)); !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %d", p.WindowID))
	}

	size := platform.PhysicalSize{Width: p.Width, Height: p.Height}
	if err := s.app.RequestSurfaceSize(platform.WindowID(p.WindowID), size); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to request surface size: %v", err))
	}
	return okOrError(NewOKResponse(nil))
}

func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var p WindowIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	w, ok := s.app.Window(platform.WindowID(p.WindowID))
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %d", p.WindowID))
	}

	done := make(chan struct{})
	if err := s.app.Call(func() {
		w.Close()
		close(done)
	}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to close window: %v", err))
	}

	select {
	case <-done:
		return okOrError(NewOKResponse(nil))
	case <-time.After(s.timeout):
		return NewErrorResponse(fmt.Sprintf("Failed to close window: %v", ErrTimeout))
	}
}

func (s *Server) handlePollEvents(payload json.RawMessage) *Response {
	var p PollEventsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	limit := p.Max
	if limit <= 0 {
		limit = DefaultPollMax
	}

	events := s.app.DrainEvents(limit)
	if events == nil {
		events = []event.WindowEvent{}
	}
	return okOrError(NewOKResponse(eventsData{Events: events}))
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Defaults returns the attributes CREATE_WINDOW starts from.
func (s *Server) Defaults() platform.WindowAttributes {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	return s.defaults
}

// UpdateDefaults replaces the window defaults after a config reload.
func (s *Server) UpdateDefaults(attrs platform.WindowAttributes) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults = attrs
}

// Stop shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

func (p CreateWindowPayload) apply(attrs platform.WindowAttributes) platform.WindowAttributes {
	if p.Title != "" {
		attrs = attrs.WithTitle(p.Title)
	}
	if p.Width > 0 && p.Height > 0 {
		attrs = attrs.WithSurfaceSize(platform.LogicalSize{Width: p.Width, Height: p.Height})
	}
	if p.Decorations != nil {
		attrs = attrs.WithDecorations(*p.Decorations)
	}
	if p.Resizable != nil {
		attrs = attrs.WithResizable(*p.Resizable)
	}
	if p.Transparent != nil {
		attrs = attrs.WithTransparent(*p.Transparent)
	}
	if p.Maximized != nil {
		attrs = attrs.WithMaximized(*p.Maximized)
	}
	if p.Visible != nil {
		attrs = attrs.WithVisible(*p.Visible)
	}
	if p.AlwaysOnTop != nil {
		attrs = attrs.WithAlwaysOnTop(*p.AlwaysOnTop)
	}
	return attrs
}

func windowInfo(w *app.Window) WindowInfo {
	size := w.SurfaceSize()
	pos := w.OuterPosition()
	return WindowInfo{
		ID:          uint64(w.ID()),
		Width:       size.Width,
		Height:      size.Height,
		X:           pos.X,
		Y:           pos.Y,
		ScaleFactor: w.ScaleFactor(),
		Closed:      w.IsClosed(),
	}
}

func okOrError(resp *Response, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
