package components

import (
	"strings"

	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  string // key binding shown next to inactive tabs
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Calculator", Key: "F1"},
	{Name: "Compare", Key: "F2"},
}

func tabLabel(tab Tab, active bool) string {
	if active {
		return tab.Name
	}
	return tab.Name + " [" + tab.Key + "]"
}

// TabVisualWidth returns the rendered width of a tab, padding included.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active)) + 2
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tabLabel(tab, true))
		} else {
			parts[i] = inactiveStyle.Render(tabLabel(tab, false))
		}
	}

	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a key binding, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if strings.EqualFold(tab.Key, key) {
			return i
		}
	}
	return -1
}
