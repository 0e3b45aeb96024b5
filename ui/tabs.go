package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Tab int

const (
	LeadsTab Tab = iota
	OpportunitiesTab
)

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}

var (
	inactiveTabBorder = tabBorderWithBottom("┴", "─", "┴")
	activeTabBorder   = tabBorderWithBottom("┘", " ", "└")
	highlightColor    = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	inactiveTabStyle  = lipgloss.NewStyle().
				Border(inactiveTabBorder, true).
				BorderForeground(highlightColor).
				Padding(0, 1)
	activeTabStyle = inactiveTabStyle.
			Border(activeTabBorder, true).
			Bold(true)
)

// Tabs renders the leads/opportunities tab header with item counts.
type Tabs struct {
	active    Tab
	leadCount int
	oppCount  int
	width     int
}

func NewTabs() *Tabs {
	return &Tabs{}
}

func (t *Tabs) SetSize(width int) {
	t.width = width
}

func (t *Tabs) SetCounts(leadCount, oppCount int) {
	t.leadCount = leadCount
	t.oppCount = oppCount
}

// Toggle switches to the other tab.
func (t *Tabs) Toggle() {
	if t.active == LeadsTab {
		t.active = OpportunitiesTab
	} else {
		t.active = LeadsTab
	}
}

func (t *Tabs) Active() Tab {
	return t.active
}

func (t *Tabs) String() string {
	labels := []string{
		fmt.Sprintf("Leads (%d)", t.leadCount),
		fmt.Sprintf("Opportunities (%d)", t.oppCount),
	}

	var rendered []string
	for i, label := range labels {
		style := inactiveTabStyle
		if Tab(i) == t.active {
			style = activeTabStyle
		}
		rendered = append(rendered, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)

	// Extend the bottom border to the full width.
	gap := t.width - lipgloss.Width(row)
	if gap > 0 {
		filler := lipgloss.NewStyle().Foreground(highlightColor).Render(strings.Repeat("─", gap))
		row = lipgloss.JoinHorizontal(lipgloss.Bottom, row, filler)
	}
	return row
}
