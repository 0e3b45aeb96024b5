package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

const (
	scoreColWidth  = 7
	statusColWidth = 13
	amountColWidth = 14
	colGap         = 1
)

// LeadRenderer lays out leads as fixed-width table rows.
type LeadRenderer struct {
	width int

	nameWidth, companyWidth, emailWidth, sourceWidth int
}

func (r *LeadRenderer) setWidth(width int) {
	r.width = width

	fixed := scoreColWidth + statusColWidth + amountColWidth + 6*colGap
	flex := width - fixed
	if flex < 20 {
		flex = 20
	}
	r.nameWidth = flex * 22 / 100
	r.companyWidth = flex * 22 / 100
	r.emailWidth = flex * 34 / 100
	r.sourceWidth = flex - r.nameWidth - r.companyWidth - r.emailWidth
}

// Header renders the column titles. The score column shows the sort direction.
func (r *LeadRenderer) Header(order leads.SortOrder) string {
	arrow := "↓"
	if order == leads.SortAsc {
		arrow = "↑"
	}
	cols := []string{
		cell("Name", r.nameWidth),
		cell("Company", r.companyWidth),
		cell("Email", r.emailWidth),
		cell("Source", r.sourceWidth),
		cell("Score "+arrow, scoreColWidth),
		cell("Status", statusColWidth),
		cell("Amount", amountColWidth),
	}
	return headerCellStyle.Render(strings.Join(cols, strings.Repeat(" ", colGap)))
}

// Render renders one lead. The selected row is drawn without the coloured
// badge so the highlight covers the whole line.
func (r *LeadRenderer) Render(l leads.Lead, selected bool) string {
	status := cell(leads.StatusLabel(l.Status), statusColWidth)
	if !selected {
		badge := StatusBadge(l.Status)
		status = badge + strings.Repeat(" ", max(0, statusColWidth-lipgloss.Width(badge)))
	}

	cols := []string{
		cell(l.Name, r.nameWidth),
		cell(l.Company, r.companyWidth),
		cell(l.Email, r.emailWidth),
		cell(l.Source, r.sourceWidth),
		cell(strconv.Itoa(l.Score), scoreColWidth),
		status,
		cell(leads.FormatCurrency(l.Amount), amountColWidth),
	}
	line := strings.Join(cols, strings.Repeat(" ", colGap))
	if selected {
		return selectedRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}

// OpportunityRenderer lays out opportunities as table rows.
type OpportunityRenderer struct {
	nameWidth, accountWidth int
}

const stageColWidth = 15

func (r *OpportunityRenderer) setWidth(width int) {
	flex := width - stageColWidth - amountColWidth - 3*colGap
	if flex < 20 {
		flex = 20
	}
	r.nameWidth = flex * 55 / 100
	r.accountWidth = flex - r.nameWidth
}

func (r *OpportunityRenderer) Header() string {
	cols := []string{
		cell("Name", r.nameWidth),
		cell("Account", r.accountWidth),
		cell("Stage", stageColWidth),
		cell("Amount", amountColWidth),
	}
	return headerCellStyle.Render(strings.Join(cols, strings.Repeat(" ", colGap)))
}

func (r *OpportunityRenderer) Render(o leads.Opportunity, selected bool) string {
	cols := []string{
		cell(o.Name, r.nameWidth),
		cell(o.AccountName, r.accountWidth),
		cell(o.Stage, stageColWidth),
		cell(leads.FormatCurrency(o.Amount), amountColWidth),
	}
	line := strings.Join(cols, strings.Repeat(" ", colGap))
	if selected {
		return selectedRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}
