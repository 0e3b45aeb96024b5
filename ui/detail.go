package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-console/leads"
)

// DetailField is an editable field of the detail panel.
type DetailField int

const (
	FieldEmail DetailField = iota
	FieldStatus
	FieldAmount
	fieldCount
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#aaaaaa"})
	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("205"))
	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"})
)

// DetailPanel shows one lead and edits its email, status and amount.
type DetailPanel struct {
	lead    leads.Lead
	open    bool
	editing bool
	saving  bool

	focus  DetailField
	email  textinput.Model
	amount textinput.Model
	status leads.Status
	errors map[string]string

	width, height int
	spinner       *spinner.Model
}

func NewDetailPanel(spinner *spinner.Model) *DetailPanel {
	email := textinput.New()
	email.Prompt = ""
	email.CharLimit = 254
	email.Placeholder = "name@company.com"

	amount := textinput.New()
	amount.Prompt = "$ "
	amount.CharLimit = 20
	amount.Placeholder = "0.00"

	return &DetailPanel{
		email:   email,
		amount:  amount,
		spinner: spinner,
		errors:  map[string]string{},
	}
}

func (d *DetailPanel) SetSize(width, height int) {
	d.width = width
	d.height = height
	inner := max(10, width-6)
	d.email.Width = inner
	d.amount.Width = inner - 2
}

// Open shows the panel for lead in read-only mode.
func (d *DetailPanel) Open(lead leads.Lead) {
	d.open = true
	d.saving = false
	d.SetLead(lead)
}

// Close hides the panel and drops any unsaved edits.
func (d *DetailPanel) Close() {
	d.open = false
	d.editing = false
	d.saving = false
	d.email.Blur()
	d.amount.Blur()
}

func (d *DetailPanel) IsOpen() bool {
	return d.open
}

func (d *DetailPanel) Lead() leads.Lead {
	return d.lead
}

// SetLead replaces the lead and resets the form from it.
func (d *DetailPanel) SetLead(lead leads.Lead) {
	d.lead = lead
	d.resetForm()
	d.editing = false
}

func (d *DetailPanel) resetForm() {
	form := leads.NewEditForm(d.lead)
	d.email.SetValue(form.Email)
	d.amount.SetValue(form.Amount)
	d.status = form.Status
	d.errors = map[string]string{}
	d.focus = FieldEmail
	d.email.Blur()
	d.amount.Blur()
}

// StartEditing switches to edit mode with the email field focused.
func (d *DetailPanel) StartEditing() tea.Cmd {
	if !d.open || d.saving {
		return nil
	}
	d.editing = true
	d.focus = FieldEmail
	return d.syncFocus()
}

func (d *DetailPanel) IsEditing() bool {
	return d.editing
}

// Cancel leaves edit mode and restores the form from the lead.
func (d *DetailPanel) Cancel() {
	d.resetForm()
	d.editing = false
}

// Form returns the current field values.
func (d *DetailPanel) Form() leads.EditForm {
	return leads.EditForm{
		Email:  d.email.Value(),
		Status: d.status,
		Amount: d.amount.Value(),
	}
}

// SetErrors shows field messages keyed like leads.FieldErrors.
func (d *DetailPanel) SetErrors(errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	d.errors = errs
}

func (d *DetailPanel) Errors() map[string]string {
	return d.errors
}

func (d *DetailPanel) SetSaving(saving bool) {
	d.saving = saving
}

func (d *DetailPanel) IsSaving() bool {
	return d.saving
}

// CanConvert reports whether the convert action is available.
func (d *DetailPanel) CanConvert() bool {
	return d.open && !d.editing && !d.saving && d.lead.Convertible()
}

func (d *DetailPanel) Focus() DetailField {
	return d.focus
}

// NextField moves focus forward, wrapping around.
func (d *DetailPanel) NextField() tea.Cmd {
	d.focus = (d.focus + 1) % fieldCount
	return d.syncFocus()
}

// PrevField moves focus backward, wrapping around.
func (d *DetailPanel) PrevField() tea.Cmd {
	d.focus = (d.focus + fieldCount - 1) % fieldCount
	return d.syncFocus()
}

func (d *DetailPanel) syncFocus() tea.Cmd {
	d.email.Blur()
	d.amount.Blur()
	switch d.focus {
	case FieldEmail:
		return d.email.Focus()
	case FieldAmount:
		return d.amount.Focus()
	}
	return nil
}

// HandleKeyPress edits the focused field. Navigation and save keys are handled
// by the caller.
func (d *DetailPanel) HandleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if !d.editing || d.saving {
		return nil
	}

	var cmd tea.Cmd
	switch d.focus {
	case FieldEmail:
		d.email, cmd = d.email.Update(msg)
	case FieldAmount:
		d.amount, cmd = d.amount.Update(msg)
	case FieldStatus:
		switch msg.String() {
		case "left", "h":
			d.status = cycleStatus(d.status, -1)
		case "right", "l", " ":
			d.status = cycleStatus(d.status, 1)
		}
	}
	return cmd
}

func cycleStatus(s leads.Status, delta int) leads.Status {
	opts := leads.StatusOptions
	for i, o := range opts {
		if o.Value == s {
			return opts[(i+delta+len(opts))%len(opts)].Value
		}
	}
	return opts[0].Value
}

func (d *DetailPanel) label(text string, field DetailField) string {
	if d.editing && d.focus == field {
		return focusedLabelStyle.Render("› " + text)
	}
	return labelStyle.Render(text)
}

func (d *DetailPanel) fieldError(key string) string {
	if msg, ok := d.errors[key]; ok && msg != "" {
		return "\n" + errorTextStyle.Render(msg)
	}
	return ""
}

func (d *DetailPanel) String() string {
	if !d.open {
		return ""
	}
	inner := max(10, d.width-4)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Lead Details"))
	b.WriteString("\n")
	mode := "Lead information (read-only)"
	if d.editing {
		mode = "Edit lead information"
	}
	b.WriteString(subtleStyle.Render(wrap(mode, inner)))
	b.WriteString("\n\n")

	readOnly := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(wrap(value, inner))
		b.WriteString("\n\n")
	}
	readOnly("Name", d.lead.Name)
	readOnly("Company", d.lead.Company)

	b.WriteString(d.label("Email", FieldEmail))
	b.WriteString("\n")
	if d.editing {
		b.WriteString(d.email.View())
		b.WriteString(d.fieldError("email"))
	} else {
		b.WriteString(truncate(d.lead.Email, inner))
	}
	b.WriteString("\n\n")

	readOnly("Source", d.lead.Source)
	readOnly("Score", strconv.Itoa(d.lead.Score)+" / 100")

	b.WriteString(d.label("Status", FieldStatus))
	b.WriteString("\n")
	if d.editing {
		b.WriteString(fmt.Sprintf("‹ %s ›", StatusBadge(d.status)))
		b.WriteString(d.fieldError("status"))
	} else {
		b.WriteString(StatusBadge(d.lead.Status))
	}
	b.WriteString("\n\n")

	b.WriteString(d.label("Potential Amount", FieldAmount))
	b.WriteString("\n")
	if d.editing {
		b.WriteString(d.amount.View())
		b.WriteString(d.fieldError("amount"))
	} else {
		b.WriteString(leads.FormatSimpleCurrency(d.lead.Amount))
	}
	b.WriteString("\n\n")

	switch {
	case d.saving:
		b.WriteString(loadingStyle.Render(d.spinner.View() + " Saving..."))
	case d.editing:
		b.WriteString(subtleStyle.Render("ctrl+s save • esc cancel"))
	case d.lead.Convertible():
		b.WriteString(successTextStyle.Render("c Convert to Opportunity"))
		b.WriteString(subtleStyle.Render(" • e edit • esc close"))
	default:
		b.WriteString(disabledStyle.Render("Unqualified leads cannot be converted"))
		b.WriteString(subtleStyle.Render(" • e edit • esc close"))
	}

	return panelStyle.Width(max(10, d.width-2)).Render(b.String())
}
