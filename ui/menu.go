package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sales-console/keys"
)

type MenuState int

const (
	StateDefault MenuState = iota
	StateSearch
	StateDetail
	StateEditing
	StateOpportunities
	StateEmpty
)

var keyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#655F5F", Dark: "#7F7A7A"})

var descStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#7A7474", Dark: "#9C9494"})

var sepStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"})

var separator = " • "

var menuStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205"))

var (
	defaultMenuOptions = []keys.KeyName{
		keys.KeySearch, keys.KeyStatusNext, keys.KeySort, keys.KeyResetFilters,
		keys.KeyEnter, keys.KeyConvert, keys.KeyLoadMore, keys.KeyTab, keys.KeyHelp, keys.KeyQuit,
	}
	searchMenuOptions        = []keys.KeyName{keys.KeyEnter, keys.KeyEsc}
	detailMenuOptions        = []keys.KeyName{keys.KeyEdit, keys.KeyConvert, keys.KeyCopyEmail, keys.KeyEsc}
	editingMenuOptions       = []keys.KeyName{keys.KeyNextField, keys.KeySave, keys.KeyEsc}
	opportunitiesMenuOptions = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyTab, keys.KeyHelp, keys.KeyQuit}
	emptyMenuOptions         = []keys.KeyName{keys.KeyResetFilters, keys.KeyTab, keys.KeyHelp, keys.KeyQuit}
)

// Menu is the key hint bar at the bottom of the screen.
type Menu struct {
	options       []keys.KeyName
	height, width int
	state         MenuState
	// keyDown is the key that was just pressed. -1 when none is highlighted.
	keyDown keys.KeyName
}

func NewMenu() *Menu {
	return &Menu{
		options: defaultMenuOptions,
		state:   StateDefault,
		keyDown: -1,
	}
}

// Keydown highlights the matching option until ClearKeydown.
func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

func (m *Menu) SetState(state MenuState) {
	m.state = state
	switch state {
	case StateSearch:
		m.options = searchMenuOptions
	case StateDetail:
		m.options = detailMenuOptions
	case StateEditing:
		m.options = editingMenuOptions
	case StateOpportunities:
		m.options = opportunitiesMenuOptions
	case StateEmpty:
		m.options = emptyMenuOptions
	default:
		m.options = defaultMenuOptions
	}
}

func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var s strings.Builder
	for i, k := range m.options {
		binding := keys.GlobalkeyBindings[k]

		var (
			localActionStyle = menuStyle
			localKeyStyle    = keyStyle
			localDescStyle   = descStyle
		)
		if m.keyDown == k {
			localActionStyle = localActionStyle.Underline(true)
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		if k == keys.KeyConvert || k == keys.KeySave {
			s.WriteString(localActionStyle.Render(binding.Help().Key))
		} else {
			s.WriteString(localKeyStyle.Render(binding.Help().Key))
		}
		s.WriteString(" ")
		s.WriteString(localDescStyle.Render(binding.Help().Desc))

		if i != len(m.options)-1 {
			s.WriteString(sepStyle.Render(separator))
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
