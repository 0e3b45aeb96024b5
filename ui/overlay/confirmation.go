package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// ConfirmationOverlay asks a yes/no question.
type ConfirmationOverlay struct {
	message   string
	width     int
	Confirmed bool
	Dismissed bool
	OnConfirm func()
	OnCancel  func()

	ConfirmKey string
	CancelKey  string
}

func NewConfirmationOverlay(message string) *ConfirmationOverlay {
	return &ConfirmationOverlay{
		message:    message,
		width:      50,
		ConfirmKey: "y",
		CancelKey:  "n",
	}
}

func (c *ConfirmationOverlay) SetWidth(width int) {
	c.width = width
}

// HandleKeyPress processes a key press. It returns true once the overlay should
// be closed.
func (c *ConfirmationOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case c.ConfirmKey:
		c.Confirmed = true
		c.Dismissed = true
		if c.OnConfirm != nil {
			c.OnConfirm()
		}
		return true
	case c.CancelKey, "esc":
		c.Dismissed = true
		if c.OnCancel != nil {
			c.OnCancel()
		}
		return true
	}
	return false
}

func (c *ConfirmationOverlay) View() string {
	return c.Render()
}

func (c *ConfirmationOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#de613e")).
		Padding(1, 2).
		Width(c.width)

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	hint := "Press " + keyStyle.Render(c.ConfirmKey) + " to confirm, " +
		keyStyle.Render(c.CancelKey) + " to cancel"

	return style.Render(wordwrap.String(c.message, max(10, c.width-4)) + "\n\n" + hint)
}
