package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

// OpportunityList displays converted opportunities in creation order.
type OpportunityList struct {
	items         []leads.Opportunity
	selectedIdx   int
	scrollOffset  int
	height, width int
	renderer      *OpportunityRenderer
}

func NewOpportunityList() *OpportunityList {
	return &OpportunityList{renderer: &OpportunityRenderer{}}
}

func (o *OpportunityList) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.renderer.setWidth(width)
}

func (o *OpportunityList) SetItems(items []leads.Opportunity) {
	o.items = items
	if o.selectedIdx >= len(items) {
		o.selectedIdx = max(0, len(items)-1)
	}
	o.ensureSelectedVisible()
}

func (o *OpportunityList) Up() {
	if o.selectedIdx > 0 {
		o.selectedIdx--
	}
	o.ensureSelectedVisible()
}

func (o *OpportunityList) Down() {
	if o.selectedIdx < len(o.items)-1 {
		o.selectedIdx++
	}
	o.ensureSelectedVisible()
}

func (o *OpportunityList) maxVisible() int {
	return max(1, o.height-4)
}

func (o *OpportunityList) ensureSelectedVisible() {
	if o.selectedIdx < o.scrollOffset {
		o.scrollOffset = o.selectedIdx
	}
	if o.selectedIdx >= o.scrollOffset+o.maxVisible() {
		o.scrollOffset = o.selectedIdx - o.maxVisible() + 1
	}
	if o.scrollOffset < 0 {
		o.scrollOffset = 0
	}
}

func (o *OpportunityList) String() string {
	var b strings.Builder
	title := mainTitle.Render(" Opportunities ")
	b.WriteString(lipgloss.Place(o.width, 1, lipgloss.Left, lipgloss.Bottom, title))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d opportunities", len(o.items))))
	b.WriteString("\n\n")
	b.WriteString(o.renderer.Header())
	b.WriteString("\n")

	if len(o.items) == 0 {
		b.WriteString(subtleStyle.Render("No opportunities yet. Convert some leads to get started!"))
		return b.String()
	}

	end := min(len(o.items), o.scrollOffset+o.maxVisible())
	for i := o.scrollOffset; i < end; i++ {
		b.WriteString(o.renderer.Render(o.items[i], i == o.selectedIdx))
		if i != end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
