package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-console/keys"
	"sales-console/leads"
	testui "sales-console/test/ui"
)

func TestFilterBar(t *testing.T) {
	f := NewFilterBar("acme")
	f.SetWidth(120)
	assert.Equal(t, "acme", f.Value())

	f.SetFilters(leads.DefaultFilters(), false)
	out := render(f)
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "All Statuses")
	assert.Contains(t, out, "Score: high → low")
	assert.NotContains(t, out, "Reset Filters")

	f.SetFilters(leads.FilterState{StatusFilter: leads.StatusFilter(leads.StatusQualified), SortOrder: leads.SortAsc}, true)
	out = render(f)
	assert.Contains(t, out, "Score: low → high")
	assert.Contains(t, out, "R Reset Filters")
}

func TestFilterBarHandleKeyPress(t *testing.T) {
	f := NewFilterBar("")
	f.SetWidth(120)

	changed, _ := f.HandleKeyPress(testui.KeyMsg("a"))
	assert.False(t, changed, "blurred box ignores keys")

	f.Focus()
	assert.True(t, f.Focused())
	changed, _ = f.HandleKeyPress(testui.KeyMsg("a"))
	assert.True(t, changed)
	assert.Equal(t, "a", f.Value())

	changed, _ = f.HandleKeyPress(testui.KeyMsg("left"))
	assert.False(t, changed)

	f.Blur()
	assert.False(t, f.Focused())
}

func TestMenuStates(t *testing.T) {
	tests := []struct {
		state   MenuState
		want    []string
		notWant []string
	}{
		{state: StateDefault, want: []string{"search", "convert", "quit"}},
		{state: StateSearch, want: []string{"cancel"}, notWant: []string{"convert"}},
		{state: StateDetail, want: []string{"edit", "convert"}},
		{state: StateEditing, want: []string{"^s", "save", "next field"}, notWant: []string{"convert"}},
		{state: StateEmpty, notWant: []string{"convert"}},
	}

	for _, tt := range tests {
		m := NewMenu()
		m.SetSize(160, 1)
		m.SetState(tt.state)
		out := render(m)
		for _, s := range tt.want {
			assert.Contains(t, out, s, "state %d", tt.state)
		}
		for _, s := range tt.notWant {
			assert.NotContains(t, out, s, "state %d", tt.state)
		}
	}
}

func TestMenuKeydown(t *testing.T) {
	m := NewMenu()
	m.SetSize(160, 1)
	before := render(m)

	m.Keydown(keys.KeySearch)
	assert.Equal(t, before, render(m), "highlight only changes styling")
	m.ClearKeydown()
	assert.Equal(t, keys.KeyName(-1), m.keyDown)
}

func TestTabs(t *testing.T) {
	tabs := NewTabs()
	tabs.SetSize(80)
	tabs.SetCounts(58, 2)

	out := render(tabs)
	assert.Contains(t, out, "Leads (58)")
	assert.Contains(t, out, "Opportunities (2)")
	assert.Equal(t, LeadsTab, tabs.Active())

	tabs.Toggle()
	assert.Equal(t, OpportunitiesTab, tabs.Active())
	tabs.Toggle()
	assert.Equal(t, LeadsTab, tabs.Active())
}

func TestErrBox(t *testing.T) {
	e := NewErrBox()
	e.SetSize(60, 1)

	e.SetError(errors.New("failed to save\nlead"))
	assert.Contains(t, render(e), "failed to save lead")

	e.SetNotice("Copied ada@engines.io")
	out := render(e)
	assert.Contains(t, out, "Copied ada@engines.io")
	assert.NotContains(t, out, "failed")

	e.Clear()
	assert.Empty(t, strings.TrimSpace(render(e)))

	e.SetError(errors.New(strings.Repeat("x", 100)))
	assert.Contains(t, render(e), ellipsis)
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "abc", truncate("abc", 4))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "ab  ", cell("ab", 4))
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "one two three", wrap("one two three", 0))
}
