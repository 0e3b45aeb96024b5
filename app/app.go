package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-console/config"
	"sales-console/keys"
	"sales-console/leads"
	"sales-console/log"
	"sales-console/ui"
	"sales-console/ui/debounce"
	"sales-console/ui/overlay"
)

// loadErrorText replaces the leads tab when the initial load fails.
const loadErrorText = "Failed to load leads. Please restart the console to try again."

// Options configures the console.
type Options struct {
	Config *config.Config
	// Store holds the persisted filters and help state. Nil uses an in-memory store.
	Store config.Store
	// Source supplies the initial leads. Nil uses Config.DataFile, or the
	// bundled dataset when that is empty.
	Source leads.Source
	// Leads replaces the lead store entirely; Source is ignored when set.
	Leads *leads.Store
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	h := newHome(ctx, opts)
	p := tea.NewProgram(h, tea.WithAltScreen())
	h.send = p.Send
	_, err := p.Run()
	h.searchDebouncer.Cancel()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateSearch is the state when the search box has focus.
	stateSearch
	// stateDetail is the state when the lead detail panel is open.
	stateDetail
	// stateHelp is the state when a help screen is displayed.
	stateHelp
	// stateConfirm is the state when a confirmation modal is displayed.
	stateConfirm
)

type home struct {
	ctx context.Context
	cfg *config.Config

	// send delivers messages from timer goroutines into the update loop.
	send func(tea.Msg)

	// -- Storage and Configuration --

	leadStore *leads.Store
	opps      *leads.OpportunityStore
	converter *leads.Converter
	filters   *leads.FilterController
	// helpSeen stores which help screens were already shown
	helpSeen *config.Persisted[uint32]

	// -- State --

	state           state
	helpReturnState state
	// confirmReturnState is restored once the confirmation modal closes.
	confirmReturnState state
	pendingAction      func() tea.Cmd

	engine          *leads.Engine
	searchDebouncer *debounce.Debouncer[string]
	// settledTerm is the search term the engine filters by.
	settledTerm string
	// saveGeneration invalidates in-flight saves when the panel closes.
	saveGeneration uint64

	loaded  bool
	loadErr error

	copyToClipboard func(string) error
	sentinelLog     *log.Every

	// -- UI Components --

	list      *ui.List
	filterBar *ui.FilterBar
	detail    *ui.DetailPanel
	oppList   *ui.OpportunityList
	tabs      *ui.Tabs
	menu      *ui.Menu
	errBox    *ui.ErrBox
	// global spinner instance. we plumb this down to where it's needed
	spinner spinner.Model
	// textOverlay displays help screens
	textOverlay *overlay.TextOverlay
	// confirmationOverlay displays confirmation modals
	confirmationOverlay *overlay.ConfirmationOverlay

	width, height int
}

func newHome(ctx context.Context, opts Options) *home {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Store
	if store == nil {
		store = config.NewMemoryStore()
	}
	leadStore := opts.Leads
	if leadStore == nil {
		source := opts.Source
		if source == nil && cfg.DataFile != "" {
			source = leads.FileSource{Path: cfg.DataFile}
		}
		leadStore = leads.NewStore(source)
	}
	opps := leads.NewOpportunityStore()

	h := &home{
		ctx:             ctx,
		cfg:             cfg,
		leadStore:       leadStore,
		opps:            opps,
		converter:       leads.NewConverter(leadStore, opps),
		filters:         leads.NewFilterController(store),
		helpSeen:        newHelpSeen(store),
		state:           stateDefault,
		engine:          leads.NewEngine(leads.PageSize),
		copyToClipboard: clipboard.WriteAll,
		sentinelLog:     log.NewEvery(5 * time.Second),
		spinner:         spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		oppList:         ui.NewOpportunityList(),
		tabs:            ui.NewTabs(),
		menu:            ui.NewMenu(),
		errBox:          ui.NewErrBox(),
	}
	h.list = ui.NewList(&h.spinner)
	h.list.SetLoading(true)
	h.detail = ui.NewDetailPanel(&h.spinner)

	f := h.filters.Filters()
	h.settledTerm = f.SearchTerm
	h.filterBar = ui.NewFilterBar(f.SearchTerm)
	h.filterBar.SetFilters(f, h.showReset())
	h.searchDebouncer = debounce.New(cfg.SearchDebounce, func(term string) {
		h.dispatch(searchSettledMsg{term: term})
	})
	return h
}

// dispatch hands msg to the running program. It must not be called from
// inside Update.
func (m *home) dispatch(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout()
}

func (m *home) layout() {
	const (
		headerHeight = 2
		tabsHeight   = 3
		filterHeight = 3
		menuHeight   = 2
		errHeight    = 1
	)
	contentHeight := max(6, m.height-headerHeight-tabsHeight-filterHeight-menuHeight-errHeight)

	listWidth := m.width
	if m.detail.IsOpen() {
		// Detail panel takes 40% of width, at least 36 columns
		detailWidth := max(36, int(float32(m.width)*0.4))
		listWidth = max(20, m.width-detailWidth)
		m.detail.SetSize(m.width-listWidth, contentHeight)
	}
	m.list.SetSize(listWidth, contentHeight)
	m.oppList.SetSize(m.width, contentHeight+filterHeight)
	m.filterBar.SetWidth(m.width)
	m.tabs.SetSize(m.width)
	m.menu.SetSize(m.width, menuHeight)
	m.errBox.SetSize(int(float32(m.width)*0.9), errHeight)

	if m.textOverlay != nil {
		m.textOverlay.SetWidth(min(80, int(float32(m.width)*0.7)))
	}
	if m.confirmationOverlay != nil {
		m.confirmationOverlay.SetWidth(min(60, max(30, int(float32(m.width)*0.5))))
	}
}

func (m *home) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadLeads())
}

// loadLeads runs the initial load off the update loop.
func (m *home) loadLeads() tea.Cmd {
	store, ctx, delay := m.leadStore, m.ctx, m.cfg.InitialLoadDelay
	return func() tea.Msg {
		return leadsLoadedMsg{err: store.Load(ctx, delay)}
	}
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case leadsLoadedMsg:
		m.loaded = true
		m.list.SetLoading(false)
		if msg.err != nil {
			m.loadErr = msg.err
			m.syncMenu()
			return m, nil
		}
		return m, m.refreshLeads()
	case searchSettledMsg:
		// A reset or an enter may have settled the box since this was sent.
		if msg.term != m.filterBar.Value() {
			return m, nil
		}
		return m, m.settleSearch(msg.term)
	case loadMoreMsg:
		m.engine.FinishLoadMore(msg.ticket)
		m.syncList()
		return m, m.maybeLoadMore()
	case saveDoneMsg:
		return m, m.handleSaveDone(msg)
	case hideErrMsg:
		m.errBox.Clear()
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, m.maybeLoadMore()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	// An unsettled search is dropped, like closing the page mid-typing.
	m.searchDebouncer.Cancel()
	return m, tea.Quit
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.state {
	case stateHelp:
		return m.handleHelpState(msg)
	case stateConfirm:
		return m.handleConfirmState(msg)
	case stateSearch:
		return m.handleSearchState(msg)
	case stateDetail:
		return m.handleDetailState(msg)
	}

	name, ok := keys.Lookup(msg.String())
	if !ok {
		return m, nil
	}
	highlight := m.keydownCallback(name)

	switch name {
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyHelp:
		m.showHelpScreen(helpTypeGeneral{}, nil)
		return m, highlight
	case keys.KeyTab:
		m.tabs.Toggle()
		m.syncMenu()
		return m, highlight
	}

	if m.tabs.Active() == ui.OpportunitiesTab {
		switch name {
		case keys.KeyUp:
			m.oppList.Up()
		case keys.KeyDown:
			m.oppList.Down()
		}
		return m, highlight
	}

	// Everything below needs the leads.
	if !m.loaded || m.loadErr != nil {
		return m, highlight
	}

	var cmd tea.Cmd
	switch name {
	case keys.KeyUp:
		m.list.Up()
	case keys.KeyDown:
		m.list.Down()
		cmd = m.maybeLoadMore()
	case keys.KeyPageUp:
		m.list.PageUp()
	case keys.KeyPageDown:
		m.list.PageDown()
		cmd = m.maybeLoadMore()
	case keys.KeyEnter:
		if lead, ok := m.list.GetSelectedLead(); ok {
			m.openDetail(lead)
		}
	case keys.KeySearch:
		m.state = stateSearch
		m.syncMenu()
		cmd = m.filterBar.Focus()
	case keys.KeyStatusNext:
		m.filters.UpdateStatusFilter(m.filters.Filters().StatusFilter.Next())
		cmd = m.refreshLeads()
	case keys.KeyStatusPrev:
		m.filters.UpdateStatusFilter(m.filters.Filters().StatusFilter.Prev())
		cmd = m.refreshLeads()
	case keys.KeySort:
		m.filters.ToggleSortOrder()
		cmd = m.refreshLeads()
	case keys.KeyResetFilters:
		cmd = m.resetFilters()
	case keys.KeyLoadMore:
		if t, ok := m.engine.BeginLoadMore(); ok {
			cmd = m.scheduleLoadMore(t)
		}
	case keys.KeyConvert:
		if lead, ok := m.list.GetSelectedLead(); ok {
			cmd = m.convertSelected(lead)
		}
	case keys.KeyCopyEmail:
		if lead, ok := m.list.GetSelectedLead(); ok {
			cmd = m.copyEmail(lead)
		}
	}
	return m, tea.Batch(highlight, cmd)
}

func (m *home) handleSearchState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Leave the box; a pending settle still applies.
		m.filterBar.Blur()
		m.state = stateDefault
		m.syncMenu()
		return m, nil
	case "enter":
		m.searchDebouncer.Cancel()
		m.filterBar.Blur()
		m.state = stateDefault
		m.syncMenu()
		return m, m.settleSearch(m.filterBar.Value())
	}

	changed, cmd := m.filterBar.HandleKeyPress(msg)
	if changed {
		m.searchDebouncer.Call(m.filterBar.Value())
		m.filterBar.SetFilters(m.filters.Filters(), m.showReset())
	}
	return m, cmd
}

func (m *home) handleDetailState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.IsEditing() {
		if m.detail.IsSaving() {
			if msg.String() == "esc" {
				m.closeDetail()
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.GlobalkeyBindings[keys.KeyEsc]):
			m.detail.Cancel()
			m.syncMenu()
			return m, nil
		case key.Matches(msg, keys.GlobalkeyBindings[keys.KeySave]):
			return m, m.saveLead()
		case key.Matches(msg, keys.GlobalkeyBindings[keys.KeyNextField]):
			return m, m.detail.NextField()
		case key.Matches(msg, keys.GlobalkeyBindings[keys.KeyPrevField]):
			return m, m.detail.PrevField()
		}
		return m, m.detail.HandleKeyPress(msg)
	}

	name, ok := keys.Lookup(msg.String())
	if !ok {
		return m, nil
	}
	highlight := m.keydownCallback(name)

	var cmd tea.Cmd
	switch name {
	case keys.KeyEsc:
		m.closeDetail()
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyHelp:
		m.showHelpScreen(helpTypeGeneral{}, nil)
	case keys.KeyEdit:
		cmd = m.detail.StartEditing()
		m.syncMenu()
	case keys.KeyConvert:
		cmd = m.convertSelected(m.detail.Lead())
	case keys.KeyCopyEmail:
		cmd = m.copyEmail(m.detail.Lead())
	case keys.KeyUp, keys.KeyDown:
		if name == keys.KeyUp {
			m.list.Up()
		} else {
			m.list.Down()
			cmd = m.maybeLoadMore()
		}
		if lead, ok := m.list.GetSelectedLead(); ok && lead.ID != m.detail.Lead().ID {
			m.saveGeneration++
			m.detail.Open(lead)
		}
	}
	return m, tea.Batch(highlight, cmd)
}

func (m *home) handleConfirmState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.confirmationOverlay.HandleKeyPress(msg) {
		return m, nil
	}
	m.state = m.confirmReturnState
	m.confirmationOverlay = nil
	action := m.pendingAction
	m.pendingAction = nil
	m.syncMenu()
	if action == nil {
		return m, nil
	}
	return m, action()
}

// refreshLeads recomputes the view from the store and the filters.
func (m *home) refreshLeads() tea.Cmd {
	f := m.filters.Filters()
	m.filterBar.SetFilters(f, m.showReset())
	if !m.loaded || m.loadErr != nil {
		return nil
	}

	all := m.leadStore.All()
	reset := m.engine.SetInput(all, f, m.settledTerm)
	m.list.SetContext(len(all), m.settledTerm != "" || f.StatusFilter != leads.StatusAll, f.SortOrder)
	m.list.SetLeads(m.engine.Visible(), m.engine.Window(), reset)
	if m.detail.IsOpen() {
		m.list.SelectByID(m.detail.Lead().ID)
	}
	m.tabs.SetCounts(len(all), m.opps.Len())
	m.syncMenu()
	return m.maybeLoadMore()
}

// syncList pushes the engine window to the list without recomputing it.
func (m *home) syncList() {
	m.list.SetLeads(m.engine.Visible(), m.engine.Window(), false)
}

// maybeLoadMore starts a load-more step when the end of the revealed list is
// on screen.
func (m *home) maybeLoadMore() tea.Cmd {
	t, ok := m.engine.SentinelVisible(m.list.SentinelRatio())
	if !ok {
		return nil
	}
	if m.sentinelLog.ShouldLog() {
		w := m.engine.Window()
		log.InfoLog.Printf("loading more leads: %d of %d revealed", w.Revealed, w.TotalFiltered)
	}
	return m.scheduleLoadMore(t)
}

func (m *home) scheduleLoadMore(t leads.Ticket) tea.Cmd {
	m.syncList()
	return tea.Tick(m.cfg.LoadMoreDelay, func(time.Time) tea.Msg {
		return loadMoreMsg{ticket: t}
	})
}

func (m *home) settleSearch(term string) tea.Cmd {
	m.settledTerm = term
	m.filters.UpdateSearchTerm(term)
	return m.refreshLeads()
}

func (m *home) resetFilters() tea.Cmd {
	m.searchDebouncer.Cancel()
	m.filters.ResetFilters()
	m.filterBar.SetValue("")
	m.settledTerm = ""
	return m.refreshLeads()
}

// showReset reports whether the reset affordance applies. It follows the raw
// search box so it shows while typing.
func (m *home) showReset() bool {
	f := m.filters.Filters()
	return m.filterBar.Value() != "" || f.StatusFilter != leads.StatusAll || f.SortOrder != leads.SortDesc
}

func (m *home) openDetail(lead leads.Lead) {
	m.detail.Open(lead)
	m.state = stateDetail
	m.layout()
	m.syncMenu()
	m.showHelpScreen(helpTypeLeadDetail{}, nil)
}

func (m *home) closeDetail() {
	m.saveGeneration++
	m.detail.Close()
	m.state = stateDefault
	m.layout()
	m.syncMenu()
}

// saveLead validates the form and starts the save round trip.
func (m *home) saveLead() tea.Cmd {
	update, err := m.detail.Form().Update()
	if err != nil {
		m.detail.SetErrors(leads.FieldErrors(err))
		return nil
	}
	m.detail.SetErrors(nil)
	m.detail.SetSaving(true)
	m.saveGeneration++
	msg := saveDoneMsg{generation: m.saveGeneration, leadID: m.detail.Lead().ID, update: update}
	return tea.Tick(m.cfg.SaveDelay, func(time.Time) tea.Msg {
		return msg
	})
}

func (m *home) handleSaveDone(msg saveDoneMsg) tea.Cmd {
	if msg.generation != m.saveGeneration || !m.detail.IsOpen() || m.detail.Lead().ID != msg.leadID {
		log.InfoLog.Printf("dropping save for lead %s: panel closed", msg.leadID)
		return nil
	}
	m.detail.SetSaving(false)
	lead, ok := m.leadStore.Update(msg.leadID, msg.update)
	if !ok {
		// The lead is gone, nothing to show.
		m.closeDetail()
		return m.refreshLeads()
	}
	m.detail.SetLead(lead)
	m.syncMenu()
	return m.refreshLeads()
}

// convertSelected asks for confirmation before converting lead.
func (m *home) convertSelected(lead leads.Lead) tea.Cmd {
	if !lead.Convertible() {
		return m.handleError(fmt.Errorf("cannot convert %s: %w", lead.Name, leads.ErrUnqualifiedLead))
	}
	message := fmt.Sprintf("[!] Convert %s (%s) to an opportunity? The lead will be removed from the list.",
		lead.Name, lead.Company)
	m.confirmAction(message, func() tea.Cmd {
		return m.convert(lead)
	})
	return nil
}

func (m *home) convert(lead leads.Lead) tea.Cmd {
	opp, err := m.converter.Convert(lead)
	if err != nil {
		return m.handleError(err)
	}
	if m.detail.IsOpen() && m.detail.Lead().ID == lead.ID {
		m.closeDetail()
	}
	m.oppList.SetItems(m.opps.All())
	cmd := m.refreshLeads()
	m.showHelpScreen(helpTypeConverted{name: opp.Name, account: opp.AccountName}, nil)
	return cmd
}

func (m *home) copyEmail(lead leads.Lead) tea.Cmd {
	if lead.Email == "" {
		return m.handleError(errors.New("lead has no email address"))
	}
	if err := m.copyToClipboard(lead.Email); err != nil {
		return m.handleError(fmt.Errorf("failed to copy email: %w", err))
	}
	m.errBox.SetNotice("Copied " + lead.Email + " to the clipboard")
	return m.hideErrAfter()
}

// syncMenu picks the key hints for the current state.
func (m *home) syncMenu() {
	switch {
	case m.state == stateHelp || m.state == stateConfirm:
		return
	case m.state == stateSearch:
		m.menu.SetState(ui.StateSearch)
	case m.state == stateDetail && m.detail.IsEditing():
		m.menu.SetState(ui.StateEditing)
	case m.state == stateDetail:
		m.menu.SetState(ui.StateDetail)
	case m.tabs.Active() == ui.OpportunitiesTab:
		m.menu.SetState(ui.StateOpportunities)
	case m.loaded && m.loadErr == nil && m.engine.Total() == 0:
		m.menu.SetState(ui.StateEmpty)
	default:
		m.menu.SetState(ui.StateDefault)
	}
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

// leadsLoadedMsg is sent when the initial load finishes.
type leadsLoadedMsg struct {
	err error
}

// searchSettledMsg carries the search text once typing has paused.
type searchSettledMsg struct {
	term string
}

type loadMoreMsg struct {
	ticket leads.Ticket
}

// saveDoneMsg completes a save started by saveLead.
type saveDoneMsg struct {
	generation uint64
	leadID     string
	update     leads.LeadUpdate
}

// handleError handles all errors which get bubbled up to the app. sets the error message. We return a callback tea.Cmd that returns a hideErrMsg message
// which clears the error message after 3 seconds.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return m.hideErrAfter()
}

func (m *home) hideErrAfter() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
		case <-time.After(3 * time.Second):
		}

		return hideErrMsg{}
	}
}

// confirmAction shows a confirmation modal and stores the action to execute on confirm
func (m *home) confirmAction(message string, action func() tea.Cmd) {
	m.confirmReturnState = m.state
	m.state = stateConfirm

	m.confirmationOverlay = overlay.NewConfirmationOverlay(message)
	m.confirmationOverlay.SetWidth(min(60, max(30, int(float32(m.width)*0.5))))

	m.confirmationOverlay.OnConfirm = func() {
		m.pendingAction = action
	}
	m.confirmationOverlay.OnCancel = func() {
		m.pendingAction = nil
	}
}

var (
	appTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))
	appSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
	loadErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Padding(1, 2)
)

func (m *home) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		appTitleStyle.Render("Sales Console"),
		appSubtitleStyle.Render("Manage your leads and convert them to opportunities"),
	)

	var body string
	switch {
	case m.tabs.Active() == ui.OpportunitiesTab:
		body = m.oppList.String()
	case m.loadErr != nil:
		body = loadErrorStyle.Render(loadErrorText)
	default:
		content := m.list.String()
		if m.detail.IsOpen() {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.detail.String())
		}
		body = lipgloss.JoinVertical(lipgloss.Left, m.filterBar.String(), content)
	}

	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.tabs.String(),
		body,
		m.menu.String(),
		m.errBox.String(),
	)

	switch m.state {
	case stateHelp:
		if m.textOverlay == nil {
			log.ErrorLog.Printf("text overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(m.textOverlay.Render(), mainView, m.width, m.height)
	case stateConfirm:
		if m.confirmationOverlay == nil {
			log.ErrorLog.Printf("confirmation overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(m.confirmationOverlay.Render(), mainView, m.width, m.height)
	}
	return mainView
}
