package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

// List displays the revealed leads as a scrollable table.
type List struct {
	items         []leads.Lead
	window        leads.ViewWindow
	selectedIdx   int
	height, width int
	renderer      *LeadRenderer
	spinner       *spinner.Model

	sortOrder  leads.SortOrder
	totalLeads int  // size of the whole collection, before filtering
	filtered   bool // whether a search or status filter is active
	loading    bool // initial load in progress

	// Scrolling support
	scrollOffset int // Index of the first visible item
}

func NewList(spinner *spinner.Model) *List {
	return &List{
		renderer:  &LeadRenderer{},
		spinner:   spinner,
		sortOrder: leads.SortDesc,
	}
}

// SetSize sets the height and width of the list.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.renderer.setWidth(width)
}

// SetLoading shows the loading placeholder instead of the table.
func (l *List) SetLoading(loading bool) {
	l.loading = loading
}

// SetLeads replaces the revealed leads. reset moves the cursor back to the top,
// otherwise the cursor stays on the same row where possible.
func (l *List) SetLeads(items []leads.Lead, window leads.ViewWindow, reset bool) {
	l.items = items
	l.window = window
	if reset {
		l.selectedIdx = 0
		l.scrollOffset = 0
	}
	if l.selectedIdx >= len(l.items) {
		l.selectedIdx = max(0, len(l.items)-1)
	}
	l.ensureSelectedVisible()
}

// SetContext sets what the title and empty-state text report.
func (l *List) SetContext(totalLeads int, filtered bool, order leads.SortOrder) {
	l.totalLeads = totalLeads
	l.filtered = filtered
	l.sortOrder = order
}

// GetSelectedLead returns the lead under the cursor.
func (l *List) GetSelectedLead() (leads.Lead, bool) {
	if len(l.items) == 0 {
		return leads.Lead{}, false
	}
	return l.items[l.selectedIdx], true
}

// SelectByID moves the cursor to the lead with id if it is revealed.
func (l *List) SelectByID(id string) bool {
	for i, item := range l.items {
		if item.ID == id {
			l.selectedIdx = i
			l.ensureSelectedVisible()
			return true
		}
	}
	return false
}

// Up selects the prev item in the list.
func (l *List) Up() {
	if l.selectedIdx > 0 {
		l.selectedIdx--
	}
	l.ensureSelectedVisible()
}

// Down selects the next item in the list.
func (l *List) Down() {
	if l.selectedIdx < len(l.items)-1 {
		l.selectedIdx++
	}
	l.ensureSelectedVisible()
}

func (l *List) PageUp() {
	l.selectedIdx = max(0, l.selectedIdx-l.calculateMaxVisibleItems())
	l.ensureSelectedVisible()
}

func (l *List) PageDown() {
	l.selectedIdx = max(0, min(len(l.items)-1, l.selectedIdx+l.calculateMaxVisibleItems()))
	l.ensureSelectedVisible()
}

// SentinelRatio is the visible fraction of the end-of-list marker: 1 when the
// last revealed row is on screen and more leads remain, 0 otherwise.
func (l *List) SentinelRatio() float64 {
	if l.loading || !l.window.HasMore || len(l.items) == 0 {
		return 0
	}
	if l.scrollOffset+l.calculateMaxVisibleItems() >= len(l.items) {
		return 1
	}
	return 0
}

// calculateMaxVisibleItems calculates how many rows fit in the available height.
func (l *List) calculateMaxVisibleItems() int {
	// title, summary, blank, column header, footer
	const chromeLines = 5
	maxItems := l.height - chromeLines
	if maxItems < 1 {
		maxItems = 1
	}
	return maxItems
}

// ensureSelectedVisible adjusts scroll offset to ensure the selected item is visible
func (l *List) ensureSelectedVisible() {
	if len(l.items) == 0 {
		l.scrollOffset = 0
		return
	}

	maxVisible := l.calculateMaxVisibleItems()
	if l.selectedIdx < l.scrollOffset {
		l.scrollOffset = l.selectedIdx
	}
	if l.selectedIdx >= l.scrollOffset+maxVisible {
		l.scrollOffset = l.selectedIdx - maxVisible + 1
	}
	if l.scrollOffset > len(l.items)-1 {
		l.scrollOffset = len(l.items) - 1
	}
	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// getVisibleWindow returns the slice of items that should be rendered
func (l *List) getVisibleWindow() []leads.Lead {
	if len(l.items) == 0 {
		return nil
	}
	end := min(len(l.items), l.scrollOffset+l.calculateMaxVisibleItems())
	return l.items[l.scrollOffset:end]
}

// getScrollIndicator returns the scroll position when not every row fits.
func (l *List) getScrollIndicator() string {
	maxVisible := l.calculateMaxVisibleItems()
	if len(l.items) <= maxVisible {
		return ""
	}
	visibleEnd := min(l.scrollOffset+maxVisible, len(l.items))
	return fmt.Sprintf(" [%d-%d/%d]", l.scrollOffset+1, visibleEnd, len(l.items))
}

// Summary is the "Showing X of Y leads" line.
func (l *List) Summary() string {
	s := fmt.Sprintf("Showing %d of %d leads", len(l.items), l.window.TotalFiltered)
	if l.window.TotalFiltered != l.totalLeads {
		s += fmt.Sprintf(" (filtered from %d total)", l.totalLeads)
	}
	return s
}

func (l *List) String() string {
	var b strings.Builder

	title := mainTitle.Render(" Leads " + l.getScrollIndicator() + " ")
	b.WriteString(lipgloss.Place(l.width, 1, lipgloss.Left, lipgloss.Bottom, title))
	b.WriteString("\n")

	if l.loading {
		b.WriteString("\n")
		b.WriteString(loadingStyle.Render(l.spinner.View() + " Loading leads..."))
		return b.String()
	}

	b.WriteString(subtleStyle.Render(l.Summary()))
	b.WriteString("\n\n")
	b.WriteString(l.renderer.Header(l.sortOrder))
	b.WriteString("\n")

	if len(l.items) == 0 {
		msg := "No leads available"
		if l.filtered {
			msg = "No leads match your search criteria"
		}
		b.WriteString(subtleStyle.Render(msg))
		return b.String()
	}

	start := l.scrollOffset
	for i, item := range l.getVisibleWindow() {
		b.WriteString(l.renderer.Render(item, start+i == l.selectedIdx))
		b.WriteString("\n")
	}

	if l.window.HasMore {
		if l.window.IsLoadingMore {
			b.WriteString(loadingStyle.Render(l.spinner.View() + " Loading more leads..."))
		} else {
			b.WriteString(subtleStyle.Render("▾ more leads below (space to load)"))
		}
	}
	return b.String()
}
