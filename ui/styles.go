package ui

import (
	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

var mainTitle = lipgloss.NewStyle().
	Background(lipgloss.Color("62")).
	Foreground(lipgloss.Color("230"))

var subtleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})

var headerCellStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"})

var rowStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"})

var selectedRowStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("#dde4f0")).
	Foreground(lipgloss.Color("#1a1a1a"))

var errorTextStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#de613e"))

var successTextStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#51bd73", Dark: "#51bd73"})

var loadingStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205"))

// Badge colours follow the secondary/outline/default/destructive variants of
// the web console.
var (
	badgeSecondary = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.AdaptiveColor{Light: "#e4e4e7", Dark: "#3f3f46"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#18181b", Dark: "#fafafa"})
	badgeOutline = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffaa00"))
	badgeDefault = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))
	badgeDestructive = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("#de613e")).
				Foreground(lipgloss.Color("#ffffff"))
)

// StatusBadge renders a status as a coloured badge.
func StatusBadge(s leads.Status) string {
	return badgeStyle(s).Render(leads.StatusLabel(s))
}

func badgeStyle(s leads.Status) lipgloss.Style {
	switch s {
	case leads.StatusContacted:
		return badgeOutline
	case leads.StatusQualified:
		return badgeDefault
	case leads.StatusUnqualified:
		return badgeDestructive
	default:
		return badgeSecondary
	}
}
