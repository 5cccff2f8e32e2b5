package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

// Source is the daemon API the monitor reads from.
type Source interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	PollEvents(limit int) ([]event.Record, error)
	CloseWindow(windowID uint64) error
}

var _ Source = (*ipc.Client)(nil)

type tickMsg time.Time

// snapshotMsg carries one round of daemon queries.
type snapshotMsg struct {
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	events  []event.Record
	err     error
}

type closeResultMsg struct {
	id  uint64
	err error
}

// model is the root bubbletea model for the monitor.
type model struct {
	source    Source
	interval  time.Duration
	maxEvents int

	activeTab Tab
	paused    bool

	// Daemon state
	connected bool
	status    *ipc.StatusData
	windows   []ipc.WindowInfo
	selected  int
	events    []event.Record // oldest first
	received  uint64
	lastErr   string

	// Terminal dimensions
	width  int
	height int
}

func newModel(source Source, opts Options) model {
	return model{
		source:    source,
		interval:  opts.interval(),
		maxEvents: opts.maxEvents(),
		activeTab: TabWindows,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.refresh()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh queries the daemon. Events are only drained once status
// succeeds.
func (m model) refresh() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		status, err := source.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		msg := snapshotMsg{status: status}
		if msg.windows, err = source.ListWindows(); err != nil {
			msg.err = err
			return msg
		}
		msg.events, msg.err = source.PollEvents(ipc.DefaultPollMax)
		return msg
	}
}

func (m model) closeSelected() tea.Cmd {
	if m.selected < 0 || m.selected >= len(m.windows) {
		return nil
	}
	w := m.windows[m.selected]
	if w.Closed {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		return closeResultMsg{id: w.ID, err: source.CloseWindow(w.ID)}
	}
}

func (m *model) apply(msg snapshotMsg) {
	if msg.status == nil {
		m.connected = false
		m.status = nil
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return
	}

	m.connected = true
	m.status = msg.status
	m.lastErr = ""
	if msg.err != nil {
		m.lastErr = msg.err.Error()
	}
	if msg.windows != nil {
		m.windows = msg.windows
	}
	if m.selected >= len(m.windows) {
		m.selected = max(len(m.windows)-1, 0)
	}

	m.received += uint64(len(msg.events))
	m.events = append(m.events, msg.events...)
	if over := len(m.events) - m.maxEvents; over > 0 {
		m.events = append([]event.Record(nil), m.events[over:]...)
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1":
			m.activeTab = TabWindows
		case "2":
			m.activeTab = TabEvents
		case "3":
			m.activeTab = TabStats
		case "p":
			m.paused = !m.paused
		case "c":
			if m.activeTab == TabEvents {
				m.events = nil
			}
		case "up", "k":
			if m.activeTab == TabWindows && m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.activeTab == TabWindows && m.selected < len(m.windows)-1 {
				m.selected++
			}
		case "x":
			if m.activeTab == TabWindows {
				return m, m.closeSelected()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.paused {
			return m, m.tick()
		}
		return m, m.refresh()

	case snapshotMsg:
		m.apply(msg)
		return m, m.tick()

	case closeResultMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	backend, state := "", ""
	if m.status != nil {
		backend, state = m.status.Backend, m.status.Stats.State
	}
	statusBar := renderStatusBar(m.connected, backend, state, m.paused, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	errLine := ""
	if m.lastErr != "" {
		errLine = errorStyle.Width(m.width).Render("error: " + m.lastErr)
	}

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	if errLine != "" {
		usedHeight += lipgloss.Height(errLine)
	}
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	switch m.activeTab {
	case TabWindows:
		content = renderWindows(m.windows, m.selected, m.width, contentHeight)
	case TabEvents:
		content = renderEvents(m.events, m.width, contentHeight)
	case TabStats:
		content = renderStats(m.status, m.received, m.width, contentHeight)
	}

	parts := []string{statusBar, tabBar, content}
	if errLine != "" {
		parts = append(parts, errLine)
	}
	parts = append(parts, helpBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
