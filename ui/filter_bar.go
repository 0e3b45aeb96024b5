package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

var (
	activeChipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	inactiveChipStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#DDDDDD"}).
				Padding(0, 1)
	resetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00"))
	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#555555"}).
			Padding(0, 1)
	focusedSearchBoxStyle = searchBoxStyle.
				BorderForeground(lipgloss.Color("62"))
)

// FilterBar holds the search box and shows the status filter, sort order and
// reset affordance.
type FilterBar struct {
	input   textinput.Model
	width   int
	filters leads.FilterState
	isDirty bool
}

// NewFilterBar creates the bar with the search box pre-filled with term.
func NewFilterBar(term string) *FilterBar {
	ti := textinput.New()
	ti.Placeholder = "Search by name or company..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 100
	ti.SetValue(term)
	return &FilterBar{input: ti, filters: leads.DefaultFilters()}
}

func (f *FilterBar) SetWidth(width int) {
	f.width = width
	f.input.Width = max(10, width/3)
}

// SetFilters updates what the status chips and sort indicator show. showReset
// controls the reset hint.
func (f *FilterBar) SetFilters(filters leads.FilterState, showReset bool) {
	f.filters = filters
	f.isDirty = showReset
}

// Focus gives the search box the cursor.
func (f *FilterBar) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *FilterBar) Blur() {
	f.input.Blur()
}

func (f *FilterBar) Focused() bool {
	return f.input.Focused()
}

// Value is the raw, unsettled search text.
func (f *FilterBar) Value() string {
	return f.input.Value()
}

func (f *FilterBar) SetValue(s string) {
	f.input.SetValue(s)
}

// HandleKeyPress feeds a key to the search box. It reports whether the text
// changed.
func (f *FilterBar) HandleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f.input.Value() != before, cmd
}

func (f *FilterBar) renderStatusChips() string {
	var sb strings.Builder
	for _, opt := range leads.StatusFilterOptions() {
		if opt.Value == f.filters.StatusFilter {
			sb.WriteString(activeChipStyle.Render(opt.Label))
		} else {
			sb.WriteString(inactiveChipStyle.Render(opt.Label))
		}
	}
	return sb.String()
}

func (f *FilterBar) String() string {
	box := searchBoxStyle
	if f.input.Focused() {
		box = focusedSearchBoxStyle
	}
	search := box.Render(f.input.View())

	sortLabel := "Score: high → low"
	if f.filters.SortOrder == leads.SortAsc {
		sortLabel = "Score: low → high"
	}
	// Chips on the first line, sort order and reset hint below.
	second := subtleStyle.Render(sortLabel)
	if f.isDirty {
		second += "  " + resetStyle.Render("R Reset Filters")
	}
	controls := lipgloss.JoinVertical(lipgloss.Left, f.renderStatusChips(), second)
	row := lipgloss.JoinHorizontal(lipgloss.Center, search, "  ", controls)
	return lipgloss.NewStyle().MaxWidth(max(1, f.width)).Render(row)
}
