package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-console/config"
	"sales-console/leads"
	testui "sales-console/test/ui"
)

// testLeads builds n leads with strictly decreasing scores. Every fifth lead is
// unqualified.
func testLeads(n int) []leads.Lead {
	out := make([]leads.Lead, n)
	for i := range out {
		status := leads.StatusQualified
		if i%5 == 4 {
			status = leads.StatusUnqualified
		}
		out[i] = leads.Lead{
			ID:      fmt.Sprintf("lead-%03d", i+1),
			Name:    fmt.Sprintf("Lead %02d", i+1),
			Company: fmt.Sprintf("Company %02d", i+1),
			Email:   fmt.Sprintf("lead%02d@company%02d.com", i+1, i+1),
			Source:  "Website",
			Score:   100 - i,
			Status:  status,
			Amount:  leads.Float(float64(1000 * (i + 1))),
		}
	}
	return out
}

// seenStore is a store in which every help screen has already been shown.
func seenStore(t *testing.T) config.Store {
	t.Helper()
	store := config.NewMemoryStore()
	require.NoError(t, config.Write[uint32](store, helpSeenKey, ^uint32(0)))
	return store
}

func newTestHome(t *testing.T, store config.Store, n int) *home {
	t.Helper()
	// Highlight and error timers return at once on a cancelled context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DefaultConfig()
	cfg.SearchDebounce = 10 * time.Millisecond
	cfg.LoadMoreDelay = 0
	cfg.InitialLoadDelay = 0
	cfg.SaveDelay = 0

	h := newHome(ctx, Options{Config: cfg, Store: store, Leads: leads.NewStoreWith(testLeads(n))})
	h.copyToClipboard = func(string) error { return errors.New("no clipboard in tests") }

	// 20 rows leave room for four leads on screen.
	testui.NewMockTerminal().SetSize(120, 20).SimulateWindowResize(h)
	h.Update(h.loadLeads()())
	return h
}

// drain runs cmd and feeds the messages it produces back into h the way the
// program loop would. Highlight and error-hide messages are dropped.
func drain(t *testing.T, h *home, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case loadMoreMsg, saveDoneMsg, leadsLoadedMsg, searchSettledMsg:
			_, next := h.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(t *testing.T, h *home, key string) {
	t.Helper()
	_, cmd := testui.NewMockTerminal().SimulateKeyPress(h, key)
	drain(t, h, cmd)
}

// revealed is the number of rows the lead list shows.
func revealed(h *home) int {
	return len(h.engine.Visible())
}

func view(h *home) string {
	return testui.RemoveANSIEscapeCodes(h.View())
}

func TestInitialLoadRevealsFirstPage(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	assert.Equal(t, 20, revealed(h))
	w := h.engine.Window()
	assert.True(t, w.HasMore)
	assert.False(t, w.IsLoadingMore)
	assert.Equal(t, 45, w.TotalFiltered)

	out := view(h)
	assert.Contains(t, out, "Sales Console")
	assert.Contains(t, out, "Leads (45)")
	assert.Contains(t, out, "Lead 01")
}

func TestLoadingPlaceholderBeforeLoad(t *testing.T) {
	h := newHome(context.Background(), Options{Store: seenStore(t), Leads: leads.NewStoreWith(testLeads(3))})
	testui.NewMockTerminal().SimulateWindowResize(h)

	assert.Contains(t, view(h), "Loading leads...")
	press(t, h, "f")
	assert.Equal(t, leads.StatusAll, h.filters.Filters().StatusFilter, "filters wait for the load")
}

func TestLoadMoreWhenCursorReachesEnd(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	for i := 0; i < 18; i++ {
		press(t, h, "down")
	}
	assert.Equal(t, 20, revealed(h), "end of list not on screen yet")

	press(t, h, "down")
	assert.Equal(t, 40, revealed(h))
	assert.True(t, h.engine.Window().HasMore)

	press(t, h, "space")
	assert.Equal(t, 45, revealed(h))
	assert.False(t, h.engine.Window().HasMore)

	// Nothing left: a further request is a no-op.
	_, cmd := testui.NewMockTerminal().SimulateKeyPress(h, "space")
	drain(t, h, cmd)
	assert.Equal(t, 45, revealed(h))
}

func TestLoadMoreIgnoredWhileInFlight(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)
	term := testui.NewMockTerminal()

	_, first := term.SimulateKeyPress(h, "m")
	require.True(t, h.engine.Window().IsLoadingMore)
	assert.Contains(t, view(h), "Loading more leads...")

	_, second := term.SimulateKeyPress(h, "m")
	drain(t, h, first)
	drain(t, h, second)

	assert.Equal(t, 40, revealed(h))
	assert.False(t, h.engine.Window().IsLoadingMore)
}

func TestLoadMoreTicketGoesStaleOnFilterChange(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)
	term := testui.NewMockTerminal()

	_, pending := term.SimulateKeyPress(h, "m")
	press(t, h, "o")
	drain(t, h, pending)

	assert.Equal(t, 20, revealed(h))
	assert.False(t, h.engine.Window().IsLoadingMore)
}

func TestSearchSettlesAfterDebounce(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)
	settled := make(chan tea.Msg, 8)
	h.send = func(msg tea.Msg) { settled <- msg }
	term := testui.NewMockTerminal()

	press(t, h, "/")
	require.Equal(t, stateSearch, h.state)
	term.SimulateTyping(h, "07")

	// Nothing applies until the box goes quiet.
	assert.Equal(t, "", h.filters.Filters().SearchTerm)
	assert.Equal(t, 20, revealed(h))
	assert.Contains(t, view(h), "R Reset Filters")

	deadline := time.After(2 * time.Second)
	for h.filters.Filters().SearchTerm != "07" {
		select {
		case msg := <-settled:
			h.Update(msg)
		case <-deadline:
			t.Fatal("search never settled")
		}
	}

	require.Equal(t, 1, revealed(h))
	lead, ok := h.list.GetSelectedLead()
	require.True(t, ok)
	assert.Equal(t, "lead-007", lead.ID)
	assert.Equal(t, stateSearch, h.state, "settling keeps the box focused")
}

func TestSearchEnterSettlesImmediately(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	press(t, h, "s")
	testui.NewMockTerminal().SimulateTyping(h, "company 1")
	press(t, h, "enter")

	assert.Equal(t, stateDefault, h.state)
	assert.False(t, h.searchDebouncer.IsActive())
	assert.Equal(t, "company 1", h.filters.Filters().SearchTerm)
	assert.Equal(t, 10, revealed(h), "Company 10 to 19")
}

func TestSearchBoxTakesLetterKeys(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "/")
	testui.NewMockTerminal().SimulateKeyPress(h, "q")
	assert.Equal(t, "q", h.filterBar.Value())
	assert.Equal(t, stateSearch, h.state)
}

func TestStaleSettledTermIgnored(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	h.Update(searchSettledMsg{term: "07"})

	assert.Equal(t, "", h.filters.Filters().SearchTerm)
	assert.Equal(t, 20, revealed(h))
}

func TestStatusFilterAndSortArePersisted(t *testing.T) {
	store := seenStore(t)
	h := newTestHome(t, store, 45)

	press(t, h, "f")
	want := leads.StatusAll.Next()
	assert.Equal(t, want, h.filters.Filters().StatusFilter)

	press(t, h, "o")
	saved := config.Read(store, leads.FiltersKey, leads.DefaultFilters())
	assert.Equal(t, want, saved.StatusFilter)
	assert.Equal(t, leads.SortAsc, saved.SortOrder)

	for _, l := range h.engine.Visible() {
		assert.Equal(t, leads.Status(want), l.Status)
	}

	// A new console picks the filters back up.
	again := newTestHome(t, store, 45)
	assert.Equal(t, saved, again.filters.Filters())
}

func TestSortToggleReordersView(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	press(t, h, "o")
	lead, ok := h.list.GetSelectedLead()
	require.True(t, ok)
	assert.Equal(t, "lead-045", lead.ID, "lowest score first")
}

func TestResetFilters(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	press(t, h, "/")
	testui.NewMockTerminal().SimulateTyping(h, "07")
	press(t, h, "esc")
	press(t, h, "f")
	press(t, h, "o")
	require.True(t, h.showReset())

	press(t, h, "R")

	assert.Equal(t, leads.DefaultFilters(), h.filters.Filters())
	assert.Equal(t, "", h.filterBar.Value())
	assert.False(t, h.searchDebouncer.IsActive(), "pending search dropped")
	assert.False(t, h.showReset())
	assert.Equal(t, 20, revealed(h))
	assert.NotContains(t, view(h), "R Reset Filters")
}

func TestEmptyResults(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "/")
	testui.NewMockTerminal().SimulateTyping(h, "nobody")
	press(t, h, "enter")

	assert.Equal(t, 0, revealed(h))
	assert.Contains(t, view(h), "No leads match your search criteria")
}

func TestEditAndSaveLead(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)
	term := testui.NewMockTerminal()

	press(t, h, "enter")
	require.Equal(t, stateDetail, h.state)
	assert.Contains(t, view(h), "Lead Details")

	press(t, h, "e")
	require.True(t, h.detail.IsEditing())

	press(t, h, "ctrl+u")
	term.SimulateTyping(h, "not-an-email")
	press(t, h, "ctrl+s")
	assert.Equal(t, leads.MsgInvalidEmail, h.detail.Errors()["email"])
	assert.False(t, h.detail.IsSaving())
	stored, _ := h.leadStore.Get("lead-001")
	assert.Equal(t, "lead01@company01.com", stored.Email)

	press(t, h, "ctrl+u")
	term.SimulateTyping(h, "ada@new.io")
	press(t, h, "ctrl+s")

	stored, _ = h.leadStore.Get("lead-001")
	assert.Equal(t, "ada@new.io", stored.Email)
	assert.False(t, h.detail.IsEditing())
	assert.False(t, h.detail.IsSaving())
	assert.Equal(t, "ada@new.io", h.detail.Lead().Email)
	assert.Equal(t, stateDetail, h.state)
}

func TestCancelEditRestoresForm(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "enter")
	press(t, h, "e")
	press(t, h, "ctrl+u")
	press(t, h, "esc")

	assert.False(t, h.detail.IsEditing())
	assert.Equal(t, "lead01@company01.com", h.detail.Form().Email)
	assert.Equal(t, stateDetail, h.state)

	press(t, h, "esc")
	assert.Equal(t, stateDefault, h.state)
	assert.False(t, h.detail.IsOpen())
}

func TestSaveAfterPanelClosedIsDropped(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)
	term := testui.NewMockTerminal()

	press(t, h, "enter")
	press(t, h, "e")
	press(t, h, "ctrl+u")
	term.SimulateTyping(h, "late@save.io")
	_, save := term.SimulateKeyPress(h, "ctrl+s")
	require.True(t, h.detail.IsSaving())

	press(t, h, "esc")
	require.False(t, h.detail.IsOpen())
	drain(t, h, save)

	stored, _ := h.leadStore.Get("lead-001")
	assert.Equal(t, "lead01@company01.com", stored.Email)
}

func TestSaveForRemovedLeadClosesPanelQuietly(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)
	term := testui.NewMockTerminal()

	press(t, h, "enter")
	press(t, h, "e")
	_, save := term.SimulateKeyPress(h, "ctrl+s")
	require.True(t, h.detail.IsSaving())

	h.leadStore.Remove("lead-001")
	drain(t, h, save)

	assert.False(t, h.detail.IsOpen())
	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 4, revealed(h))
	assert.NotContains(t, view(h), "failed")
}

func TestLeadsTabCountsWholeCollection(t *testing.T) {
	h := newTestHome(t, seenStore(t), 45)

	press(t, h, "/")
	term := testui.NewMockTerminal()
	term.SimulateTyping(h, "company 1")
	press(t, h, "enter")
	require.Equal(t, 10, revealed(h))

	out := view(h)
	assert.Contains(t, out, "Leads (45)")
	assert.NotContains(t, out, "Leads (10)")
}

func TestConvertQualifiedLead(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "c")
	require.Equal(t, stateConfirm, h.state)
	assert.Contains(t, view(h), "Convert Lead 01 (Company 01)")

	press(t, h, "y")

	assert.Equal(t, stateDefault, h.state)
	require.Equal(t, 1, h.opps.Len())
	opp := h.opps.All()[0]
	assert.Equal(t, "Company 01 - Lead 01", opp.Name)
	assert.Equal(t, leads.StageQualification, opp.Stage)
	assert.Equal(t, "lead-001", opp.LeadID)
	_, ok := h.leadStore.Get("lead-001")
	assert.False(t, ok)
	assert.Equal(t, 4, revealed(h))
	assert.Contains(t, view(h), "Opportunities (1)")
}

func TestConvertCancelled(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "c")
	press(t, h, "n")

	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 0, h.opps.Len())
	assert.Equal(t, 5, revealed(h))
}

func TestConvertFromDetailPanelClosesIt(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "down")
	press(t, h, "enter")
	press(t, h, "c")
	require.Equal(t, stateConfirm, h.state)
	press(t, h, "y")

	assert.Equal(t, stateDefault, h.state)
	assert.False(t, h.detail.IsOpen())
	_, ok := h.leadStore.Get("lead-002")
	assert.False(t, ok)
}

func TestConvertUnqualifiedShowsError(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	for i := 0; i < 4; i++ {
		press(t, h, "down")
	}
	lead, _ := h.list.GetSelectedLead()
	require.Equal(t, leads.StatusUnqualified, lead.Status)

	_, cmd := testui.NewMockTerminal().SimulateKeyPress(h, "c")
	assert.NotNil(t, cmd)
	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 0, h.opps.Len())
	assert.Contains(t, view(h), "unqualified leads cannot be converted")
}

func TestConvertedHelpShownOnce(t *testing.T) {
	h := newTestHome(t, config.NewMemoryStore(), 5)
	// The first detail help would otherwise open on enter.
	require.NoError(t, h.helpSeen.Set(helpTypeLeadDetail{}.mask()))

	press(t, h, "c")
	press(t, h, "y")
	require.Equal(t, stateHelp, h.state)
	assert.Contains(t, view(h), "Opportunity Created")

	press(t, h, "x")
	assert.Equal(t, stateDefault, h.state)

	press(t, h, "c")
	press(t, h, "y")
	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 2, h.opps.Len())
}

func TestDetailHelpShownOnFirstOpen(t *testing.T) {
	h := newTestHome(t, config.NewMemoryStore(), 5)

	press(t, h, "enter")
	require.Equal(t, stateHelp, h.state)
	assert.Contains(t, view(h), "Editing:")

	press(t, h, "x")
	assert.Equal(t, stateDetail, h.state)
	press(t, h, "esc")

	press(t, h, "enter")
	assert.Equal(t, stateDetail, h.state)
}

func TestGeneralHelpAlwaysShows(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "?")
	require.Equal(t, stateHelp, h.state)
	out := view(h)
	assert.Contains(t, out, "Filtering:")
	assert.Contains(t, out, "Leads:")

	press(t, h, "esc")
	assert.Equal(t, stateDefault, h.state)
}

func TestCopyEmail(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)
	var copied string
	h.copyToClipboard = func(s string) error {
		copied = s
		return nil
	}

	press(t, h, "y")

	assert.Equal(t, "lead01@company01.com", copied)
	assert.Contains(t, view(h), "Copied lead01@company01.com")
}

func TestCopyEmailFailureShowsError(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "enter")
	_, cmd := testui.NewMockTerminal().SimulateKeyPress(h, "y")
	assert.NotNil(t, cmd)
	assert.Contains(t, view(h), "failed to copy email")
}

func TestOpportunitiesTab(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	press(t, h, "tab")
	assert.Contains(t, view(h), "No opportunities yet. Convert some leads to get started!")

	press(t, h, "tab")
	press(t, h, "c")
	press(t, h, "y")
	press(t, h, "tab")
	assert.Contains(t, view(h), "Company 01 - Lead 01")
	assert.Contains(t, view(h), "$1,000.00")
}

func TestLoadErrorView(t *testing.T) {
	h := newHome(context.Background(), Options{
		Config: &config.Config{},
		Store:  seenStore(t),
		Source: leads.FileSource{Path: filepath.Join(t.TempDir(), "missing.json")},
	})
	testui.NewMockTerminal().SimulateWindowResize(h)
	h.Update(h.loadLeads()())

	assert.Error(t, h.loadErr)
	assert.Contains(t, view(h), loadErrorText)

	press(t, h, "enter")
	assert.Equal(t, stateDefault, h.state)
}

func TestQuit(t *testing.T) {
	h := newTestHome(t, seenStore(t), 5)

	_, cmd := testui.NewMockTerminal().SimulateKeyPress(h, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
