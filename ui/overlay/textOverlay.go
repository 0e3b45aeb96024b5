package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextOverlay shows read-only text until any key is pressed.
type TextOverlay struct {
	content   string
	width     int
	Dismissed bool
	OnDismiss func()
}

func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{content: content}
}

func (t *TextOverlay) SetWidth(width int) {
	t.width = width
}

// HandleKeyPress dismisses the overlay. It returns true once the overlay should
// be closed.
func (t *TextOverlay) HandleKeyPress(tea.KeyMsg) bool {
	t.Dismissed = true
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
	return true
}

func (t *TextOverlay) View() string {
	return t.Render()
}

// Render renders the text overlay.
func (t *TextOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)
	if t.width > 0 {
		style = style.Width(t.width)
	}
	return style.Render(t.content)
}
