package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a monitor tab.
type Tab int

const (
	TabWindows Tab = iota
	TabEvents
	TabStats
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabEvents:
		return "Events"
	case TabStats:
		return "Stats"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := string(rune('1'+int(i))) + ":" + i.String()
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar renders the daemon connection line.
func renderStatusBar(connected bool, backend, state string, paused bool, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if backend != "" {
			parts = append(parts, "backend:"+backend)
		}
		if state != "" {
			parts = append(parts, "state:"+state)
		}
		if paused {
			parts = append(parts, "[paused]")
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(active Tab, width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump  p: pause  q/ctrl-c: quit"
	switch active {
	case TabWindows:
		help = "up/down: select  x: close window  " + help
	case TabEvents:
		help = "c: clear  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
