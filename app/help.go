package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-console/config"
	"sales-console/keys"
	"sales-console/log"
	"sales-console/ui/overlay"
)

// helpSeenKey stores the bitmask of help screens the user has dismissed.
const helpSeenKey = "help-screens-seen"

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
	// mask returns the bit mask for this help text. These are used to track which help screens
	// have been seen in the store.
	mask() uint32
}

type helpTypeGeneral struct{}

type helpTypeLeadDetail struct{}

type helpTypeConverted struct {
	name    string
	account string
}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Sales Console"),
		"",
		"Manage your leads and convert them to opportunities.",
		"",
	)

	for _, category := range keys.GetAllCategories() {
		categoryKeys := keys.GetKeysInCategory(category)
		if len(categoryKeys) == 0 {
			continue
		}

		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			headerStyle.Render(string(category)+":"),
		)
		for _, keyName := range categoryKeys {
			content = lipgloss.JoinVertical(lipgloss.Left, content, helpLine(keyName, 12))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, "")
	}

	return content
}

func (h helpTypeLeadDetail) toContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Lead Details"),
		"",
		descStyle.Render("The panel shows the selected lead. Name, company, source and score are read-only."),
		"",
		headerStyle.Render("Editing:"),
		helpLine(keys.KeyEdit, 10),
		helpLine(keys.KeyNextField, 10),
		helpLine(keys.KeySave, 10),
		helpLine(keys.KeyEsc, 10),
		"",
		headerStyle.Render("Converting:"),
		helpLine(keys.KeyConvert, 10),
		descStyle.Render("Unqualified leads cannot be converted."),
	)
}

func (h helpTypeConverted) toContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Opportunity Created"),
		"",
		descStyle.Render(fmt.Sprintf("• %s is now in the %s stage",
			lipgloss.NewStyle().Bold(true).Render(h.name), "Qualification")),
		descStyle.Render(fmt.Sprintf("• Account: %s", h.account)),
		descStyle.Render("• The lead has been removed from the leads list"),
		"",
		keyStyle.Render("tab")+descStyle.Render("   - Switch to the opportunities tab"),
	)
}

func (h helpTypeGeneral) mask() uint32 {
	return 1
}

func (h helpTypeLeadDetail) mask() uint32 {
	return 1 << 1
}

func (h helpTypeConverted) mask() uint32 {
	return 1 << 2
}

func helpLine(keyName keys.KeyName, width int) string {
	keyText := keys.GlobalkeyBindings[keyName].Help().Key
	padding := strings.Repeat(" ", max(1, width-lipgloss.Width(keyText)))
	return keyStyle.Render(keyText) + padding + descStyle.Render("- "+keys.GetKeyHelp(keyName).Description)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#FFFFFF"})
)

// showHelpScreen displays the help screen overlay if it hasn't been shown before
func (m *home) showHelpScreen(helpType helpText, onDismiss func()) {
	var alwaysShow bool
	switch helpType.(type) {
	case helpTypeGeneral:
		alwaysShow = true
	}

	flag := helpType.mask()
	seen := m.helpSeen.Get()

	if alwaysShow || seen&flag == 0 {
		if err := m.helpSeen.Set(seen | flag); err != nil {
			log.WarningLog.Printf("failed to save help screen state: %v", err)
		}

		m.textOverlay = overlay.NewTextOverlay(helpType.toContent())
		m.textOverlay.SetWidth(min(80, int(float32(m.width)*0.7)))
		m.textOverlay.OnDismiss = onDismiss
		m.helpReturnState = m.state
		m.state = stateHelp
		return
	}

	if onDismiss != nil {
		onDismiss()
	}
}

// handleHelpState handles key events when in help state
func (m *home) handleHelpState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.textOverlay.HandleKeyPress(msg) {
		m.state = m.helpReturnState
		m.textOverlay = nil
		m.syncMenu()
		m.layout()
		return m, nil
	}
	return m, nil
}

func newHelpSeen(store config.Store) *config.Persisted[uint32] {
	return config.NewPersisted[uint32](store, helpSeenKey, 0)
}
