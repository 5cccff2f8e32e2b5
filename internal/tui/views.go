package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/ipc"
)

func renderWindows(windows []ipc.WindowInfo, selected, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height)
	if len(windows) == 0 {
		return box.Foreground(lipgloss.Color("241")).Align(lipgloss.Center, lipgloss.Center).Render("no windows")
	}

	lines := []string{headerStyle.Render(fmt.Sprintf("%-8s %-12s %-14s %-6s %s", "ID", "SIZE", "POSITION", "SCALE", "STATE"))}
	// Keep the selection on screen.
	rows := max(height-1, 1)
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	for i := start; i < len(windows) && i < start+rows; i++ {
		w := windows[i]
		state := "open"
		if w.Closed {
			state = "closed"
		}
		line := fmt.Sprintf("%-8d %-12s %-14s %-6.2f %s",
			w.ID,
			fmt.Sprintf("%dx%d", w.Width, w.Height),
			fmt.Sprintf("%d,%d", w.X, w.Y),
			w.ScaleFactor,
			state)
		switch {
		case i == selected:
			line = selectedStyle.Render(line)
		case w.Closed:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return box.Render(strings.Join(lines, "\n"))
}

// renderEvents shows the newest events that fit, oldest at the top.
func renderEvents(events []event.Record, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height)
	if len(events) == 0 {
		return box.Foreground(lipgloss.Color("241")).Align(lipgloss.Center, lipgloss.Center).Render("waiting for events")
	}

	if len(events) > height {
		events = events[len(events)-height:]
	}
	lines := make([]string, 0, len(events))
	for _, r := range events {
		lines = append(lines, truncate(formatEvent(r), width))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func formatEvent(r event.Record) string {
	payload := string(r.Payload)
	if payload == "{}" || payload == "null" {
		payload = ""
	}
	return strings.TrimSpace(fmt.Sprintf("%-6d %-20s %s", r.WindowID, r.Type, payload))
}

func renderStats(status *ipc.StatusData, received uint64, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height)
	if status == nil {
		return box.Foreground(lipgloss.Color("241")).Align(lipgloss.Center, lipgloss.Center).Render("no data")
	}

	s := status.Stats
	rows := [][2]string{
		{"backend", status.Backend},
		{"uptime", fmt.Sprintf("%ds", status.UptimeSeconds)},
		{"state", s.State},
		{"loop thread", fmt.Sprintf("%d", s.LoopThread)},
		{"windows", fmt.Sprintf("%d (%d open)", s.Windows, s.OpenWindows)},
		{"pending actions", fmt.Sprintf("%d", s.PendingActions)},
		{"pending events", fmt.Sprintf("%d", s.PendingEvents)},
		{"actions handled", fmt.Sprintf("%d", s.ActionsHandled)},
		{"actions dropped", fmt.Sprintf("%d", s.ActionsDropped)},
		{"windows created", fmt.Sprintf("%d", s.WindowsCreated)},
		{"create failures", fmt.Sprintf("%d", s.CreateFailures)},
		{"resizes dropped", fmt.Sprintf("%d", s.ResizesDropped)},
		{"events published", fmt.Sprintf("%d", s.EventsPublished)},
		{"events received", fmt.Sprintf("%d", received)},
		{"panics recovered", fmt.Sprintf("%d", s.PanicsRecovered)},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("%-18s", row[0]))+row[1])
	}
	return box.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return string(r[:min(len(r), width)])
	}
	return string(r[:width-1]) + "…"
}
