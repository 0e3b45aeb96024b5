package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRenderer renders console components and compares them with snapshots
// stored on disk. Set UPDATE_SNAPSHOTS=true to rewrite the snapshots.
type TestRenderer struct {
	SnapshotPath    string
	UpdateSnapshots bool
	StripColors     bool
}

func NewTestRenderer() *TestRenderer {
	return &TestRenderer{
		SnapshotPath:    filepath.Join("testdata", "snapshots"),
		UpdateSnapshots: os.Getenv("UPDATE_SNAPSHOTS") == "true",
	}
}

func (r *TestRenderer) SetSnapshotPath(path string) *TestRenderer {
	r.SnapshotPath = path
	return r
}

// DisableColors strips ANSI escape codes from rendered output.
func (r *TestRenderer) DisableColors() *TestRenderer {
	r.StripColors = true
	return r
}

// RenderComponent renders anything with a View, Render or String method.
func (r *TestRenderer) RenderComponent(component any) (string, error) {
	var output string
	switch c := component.(type) {
	case interface{ View() string }:
		output = c.View()
	case interface{ Render() string }:
		output = c.Render()
	case fmt.Stringer:
		output = c.String()
	default:
		return "", fmt.Errorf("%T has no View, Render or String method", component)
	}

	if r.StripColors {
		output = RemoveANSIEscapeCodes(output)
	}
	return output, nil
}

func (r *TestRenderer) MustRender(t *testing.T, component any) string {
	t.Helper()
	output, err := r.RenderComponent(component)
	require.NoError(t, err)
	return output
}

// CompareComponentWithSnapshot fails the test when the rendered component
// differs from the snapshot file.
func (r *TestRenderer) CompareComponentWithSnapshot(t *testing.T, component any, filename string) {
	t.Helper()

	output := r.MustRender(t, component)
	path := filepath.Join(r.SnapshotPath, filename)

	if r.UpdateSnapshots {
		require.NoError(t, os.MkdirAll(r.SnapshotPath, 0755))
		require.NoError(t, os.WriteFile(path, []byte(output), 0644))
		t.Logf("updated snapshot %s", filename)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("snapshot %s does not exist, run with UPDATE_SNAPSHOTS=true to create it", filename)
	}
	require.NoError(t, err)
	assert.Equal(t, string(expected), output, "rendered output does not match snapshot %s", filename)
}

// RemoveANSIEscapeCodes returns s without colour and style sequences.
func RemoveANSIEscapeCodes(s string) string {
	return ansi.Strip(s)
}

// MockTerminal feeds terminal events of a fixed size to a model.
type MockTerminal struct {
	Width  int
	Height int
}

func NewMockTerminal() *MockTerminal {
	return &MockTerminal{Width: 120, Height: 30}
}

func (m *MockTerminal) SetSize(width, height int) *MockTerminal {
	m.Width = width
	m.Height = height
	return m
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+u":    tea.KeyCtrlU,
}

// KeyMsg builds the message a terminal sends for key. Anything that is not a
// named key is sent as runes.
func KeyMsg(key string) tea.KeyMsg {
	if key == "space" || key == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if t, ok := namedKeys[key]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func (m *MockTerminal) SimulateKeyPress(model tea.Model, key string) (tea.Model, tea.Cmd) {
	return model.Update(KeyMsg(key))
}

// SimulateTyping feeds text one rune at a time and returns the commands produced.
func (m *MockTerminal) SimulateTyping(model tea.Model, text string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range text {
		var cmd tea.Cmd
		model, cmd = model.Update(KeyMsg(string(r)))
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (m *MockTerminal) SimulateWindowResize(model tea.Model) (tea.Model, tea.Cmd) {
	return model.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
}
