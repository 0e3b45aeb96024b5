package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyQuit

	KeyTab // Tab switches between the leads and opportunities tabs.

	KeySearch       // Focus the search box
	KeyStatusNext   // Cycle the status filter forward
	KeyStatusPrev   // Cycle the status filter backward
	KeySort         // Toggle score sort order
	KeyResetFilters // Restore the default filters
	KeyLoadMore     // Reveal the next page of leads
	KeyConvert      // Convert the selected lead
	KeyCopyEmail    // Copy the selected lead's email
	KeyHelp
	KeyEsc

	// Detail panel keybindings
	KeyEdit
	KeySave
	KeyNextField
	KeyPrevField
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":     KeyUp,
	"k":      KeyUp,
	"down":   KeyDown,
	"j":      KeyDown,
	"pgup":   KeyPageUp,
	"ctrl+u": KeyPageUp,
	"pgdown": KeyPageDown,
	"ctrl+d": KeyPageDown,
	"enter":  KeyEnter,
	"q":      KeyQuit,
	"tab":    KeyTab,
	"/":      KeySearch,
	"s":      KeySearch,
	"f":      KeyStatusNext,
	"F":      KeyStatusPrev,
	"o":      KeySort,
	"R":      KeyResetFilters,
	" ":      KeyLoadMore,
	"space":  KeyLoadMore,
	"m":      KeyLoadMore,
	"c":      KeyConvert,
	"y":      KeyCopyEmail,
	"?":      KeyHelp,
	"esc":    KeyEsc,
	"e":      KeyEdit,
	"ctrl+s": KeySave,
}

// GlobalkeyBindings is a global, immutable map of KeyName tot keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyPageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup/^u", "page up"),
	),
	KeyPageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn/^d", "page down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "details"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch tab"),
	),
	KeySearch: key.NewBinding(
		key.WithKeys("/", "s"),
		key.WithHelp("/", "search"),
	),
	KeyStatusNext: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status"),
	),
	KeyStatusPrev: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "status back"),
	),
	KeySort: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	KeyResetFilters: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	KeyLoadMore: key.NewBinding(
		key.WithKeys(" ", "space", "m"),
		key.WithHelp("space", "load more"),
	),
	KeyConvert: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "convert"),
	),
	KeyCopyEmail: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy email"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyEsc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),

	// -- Detail panel keybindings --

	KeyEdit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	KeySave: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("^s", "save"),
	),
	KeyNextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	KeyPrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// Lookup returns the global key name bound to msg, if any.
func Lookup(msg string) (KeyName, bool) {
	name, ok := GlobalKeyStringsMap[msg]
	return name, ok
}
