// Package tui is the interactive terminal workbench: file tree, tabbed
// editor, console pane and navigation history over the workbench service.
package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/adecon"
	"pkt.systems/adecon/apiclient"
	"pkt.systems/adecon/internal/eventbus"
	"pkt.systems/adecon/nav"
	"pkt.systems/adecon/schema"
)

type focusZone int

const (
	focusTree focusZone = iota
	focusEditor
	focusConsole
)

// navGate shares the dirty-navigation veto between the controller blocker and
// the model. Bypass is armed for exactly one navigation.
type navGate struct {
	mu     sync.Mutex
	dirty  func() bool
	bypass bool
}

func (g *navGate) allow(current nav.Location, intent nav.Intent) bool {
	g.mu.Lock()
	bypass := g.bypass
	g.bypass = false
	g.mu.Unlock()
	if bypass {
		return true
	}
	// Query-only changes never need confirmation.
	if current.SamePath(intent.Location) {
		return true
	}
	return !g.dirty()
}

func (g *navGate) arm() {
	g.mu.Lock()
	g.bypass = true
	g.mu.Unlock()
}

// Model is the bubbletea model for the workbench.
type Model struct {
	wb      *adecon.Workbench
	session schema.SessionKey
	keys    keyMap
	th      theme

	nav   *nav.Controller
	gate  *navGate
	state nav.WorkbenchState

	width  int
	height int
	focus  focusZone

	tree      *schema.FileNode
	rows      []treeRow
	cursor    int
	collapsed map[string]bool

	tabs      []schema.TabSnapshot
	activeTab schema.TabID

	editor  textarea.Model
	console viewport.Model

	consoleLines    []string
	validationLines []string
	lastStream      string

	status     string
	err        error
	confirm    bool
	pendingNav string
	quitting   bool

	events       <-chan eventbus.Event
	cancelEvents func()
	locations    <-chan nav.Location
	cancelLocs   func()

	unregisterBlocker func()
}

// treeRow is one visible line of the flattened file tree.
type treeRow struct {
	node  *schema.FileNode
	depth int
}

// New opens the session and builds the workbench model.
func New(ctx context.Context, wb *adecon.Workbench, session schema.SessionKey) (*Model, error) {
	resp, err := wb.Service.OpenSession(ctx, schema.OpenSessionRequest{Session: session})
	if err != nil {
		return nil, err
	}

	controller := nav.NewController("/workbench", wb.Logger)
	gate := &navGate{}
	gate.dirty = func() bool {
		unsaved, err := wb.Service.UnsavedChanges(context.Background(), schema.UnsavedChangesRequest{Session: session})
		return err == nil && unsaved.Dirty
	}
	unregister := controller.RegisterBlocker(func(intent nav.Intent) bool {
		return gate.allow(controller.Location(), intent)
	})

	events, cancelEvents := wb.Bus.Subscribe(session)
	locations, cancelLocs := controller.Subscribe()

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.Prompt = ""

	m := &Model{
		wb:                wb,
		session:           session,
		keys:              defaultKeyMap(),
		nav:               controller,
		gate:              gate,
		state:             nav.DefaultState(),
		collapsed:         map[string]bool{},
		tree:              resp.Tree,
		tabs:              resp.Tabs,
		activeTab:         resp.ActiveTab,
		editor:            editor,
		console:           viewport.New(0, 0),
		events:            events,
		cancelEvents:      cancelEvents,
		locations:         locations,
		cancelLocs:        cancelLocs,
		unregisterBlocker: unregister,
	}
	theme, err := wb.Service.GetTheme(ctx, schema.GetThemeRequest{Session: session})
	if err == nil {
		m.th = themeFor(theme.Theme)
	} else {
		m.th = darkTheme()
	}
	m.rebuildRows()
	if resp.ActiveTab != "" {
		m.state.File = string(resp.ActiveTab)
	}
	return m, nil
}

// Close releases subscriptions and the navigation blocker.
func (m *Model) Close() {
	if m.cancelEvents != nil {
		m.cancelEvents()
	}
	if m.cancelLocs != nil {
		m.cancelLocs()
	}
	if m.unregisterBlocker != nil {
		m.unregisterBlocker()
	}
}

// Init starts the event pumps.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForBusEvent(m.events), waitForLocation(m.locations))
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case busEventMsg:
		cmd := m.applyBusEvent(msg.event)
		return m, tea.Batch(cmd, waitForBusEvent(m.events))

	case locationMsg:
		cmd := m.applyLocation(msg.location)
		return m, tea.Batch(cmd, waitForLocation(m.locations))

	case tabContentMsg:
		if schema.TabID(msg.tabID) == m.activeTab {
			m.editor.SetValue(msg.content)
		}
		return m, nil

	case statusMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = msg.err.Error()
		} else {
			m.err = nil
			m.status = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirm = false
			return m, m.confirmPending()
		case key.Matches(msg, m.keys.Cancel):
			m.confirm = false
			m.pendingNav = ""
			m.status = "stayed on unsaved changes"
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.requestQuit()
	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.navBack()
		return m, nil
	case key.Matches(msg, m.keys.Forward):
		m.navForward()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveActive()
	case key.Matches(msg, m.keys.CloseTab):
		return m, m.closeActive()
	case key.Matches(msg, m.keys.NextTab):
		return m, m.stepTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.stepTab(-1)
	case key.Matches(msg, m.keys.RecentTab):
		return m, m.recentTab()
	case key.Matches(msg, m.keys.TogglePin):
		return m, m.togglePin()
	case key.Matches(msg, m.keys.ToggleView):
		m.cycleView()
		return m, nil
	case key.Matches(msg, m.keys.TogglePane):
		m.togglePane()
		return m, nil
	case key.Matches(msg, m.keys.Console):
		m.toggleConsole()
		return m, nil
	case key.Matches(msg, m.keys.RefreshFiles):
		return m, m.refreshFiles()
	case key.Matches(msg, m.keys.Build):
		return m, m.startStream("build")
	case key.Matches(msg, m.keys.Validate):
		return m, m.startStream("validate")
	}

	switch m.focus {
	case focusTree:
		return m.handleTreeKey(msg)
	case focusEditor:
		return m.handleEditorKey(msg)
	case focusConsole:
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor >= 0 && m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.node.IsDir() {
				m.collapsed[row.node.ID] = !m.collapsed[row.node.ID]
				m.rebuildRows()
				return m, nil
			}
			m.navigateToFile(row.node.ID)
		}
	}
	return m, nil
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeTab == "" {
		return m, nil
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	after := m.editor.Value()
	if before == after {
		return m, cmd
	}
	session := m.session
	tabID := m.activeTab
	service := m.wb.Service
	update := func() tea.Msg {
		_, err := service.UpdateContent(context.Background(), schema.UpdateContentRequest{
			Session: session,
			TabID:   tabID,
			Content: after,
		})
		if err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
	return m, tea.Batch(cmd, update)
}

// navigateToFile funnels file selection through the navigation controller so
// blockers and history see it. A veto opens the confirm overlay.
func (m *Model) navigateToFile(path string) {
	file := path
	values := nav.MergeState(m.nav.Location().Values(), nav.StatePatch{File: &file})
	to := "?" + values.Encode()
	if !m.nav.Navigate(to) {
		m.pendingNav = to
		m.confirm = true
	}
}

func (m *Model) navBack() {
	if !m.nav.Back() {
		m.status = "history veto or start reached"
	}
}

func (m *Model) navForward() {
	if !m.nav.Forward() {
		m.status = "history veto or end reached"
	}
}

// confirmPending saves every dirty tab, arms the bypass and retries the
// vetoed navigation (or quits).
func (m *Model) confirmPending() tea.Cmd {
	pending := m.pendingNav
	m.pendingNav = ""
	session := m.session
	service := m.wb.Service
	saveAll := func() error {
		unsaved, err := service.UnsavedChanges(context.Background(), schema.UnsavedChangesRequest{Session: session})
		if err != nil {
			return err
		}
		for _, id := range unsaved.Tabs {
			if _, err := service.SaveTab(context.Background(), schema.SaveTabRequest{Session: session, TabID: id}); err != nil {
				return err
			}
		}
		return nil
	}
	if pending == "" {
		m.quitting = true
		return func() tea.Msg {
			_ = saveAll()
			return tea.Quit()
		}
	}
	gate := m.gate
	controller := m.nav
	return func() tea.Msg {
		if err := saveAll(); err != nil {
			return statusMsg{err: err}
		}
		gate.arm()
		if !controller.Navigate(pending) {
			return statusMsg{text: "navigation blocked"}
		}
		return statusMsg{text: "saved and navigated"}
	}
}

func (m *Model) requestQuit() tea.Cmd {
	unsaved, err := m.wb.Service.UnsavedChanges(context.Background(), schema.UnsavedChangesRequest{Session: m.session})
	if err == nil && unsaved.Dirty {
		m.confirm = true
		m.pendingNav = ""
		return nil
	}
	m.quitting = true
	return tea.Quit
}

func (m *Model) cycleFocus() {
	zones := []focusZone{focusTree, focusEditor}
	if m.state.Console == nav.ConsoleOpen {
		zones = append(zones, focusConsole)
	}
	for i, zone := range zones {
		if zone == m.focus {
			m.focus = zones[(i+1)%len(zones)]
			m.applyFocus()
			return
		}
	}
	m.focus = zones[0]
	m.applyFocus()
}

func (m *Model) applyFocus() {
	if m.focus == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
}

// cycleView steps editor -> split -> zen through the query funnel.
func (m *Model) cycleView() {
	var next nav.ViewMode
	switch m.state.View {
	case nav.ViewEditor:
		next = nav.ViewSplit
	case nav.ViewSplit:
		next = nav.ViewZen
	default:
		next = nav.ViewEditor
	}
	m.replaceQuery(nav.StatePatch{View: &next})
}

func (m *Model) togglePane() {
	next := nav.PaneConsole
	if m.state.Pane == nav.PaneConsole {
		next = nav.PaneValidation
	}
	m.replaceQuery(nav.StatePatch{Pane: &next})
}

func (m *Model) toggleConsole() {
	next := nav.ConsoleOpen
	if m.state.Console == nav.ConsoleOpen {
		next = nav.ConsoleClosed
	}
	m.replaceQuery(nav.StatePatch{Console: &next})
}

// replaceQuery merges a patch into the current query and replaces the history
// entry; layout toggles never grow history.
func (m *Model) replaceQuery(patch nav.StatePatch) {
	values := nav.MergeState(m.nav.Location().Values(), patch)
	m.nav.Replace("?" + values.Encode())
}

func (m *Model) saveActive() tea.Cmd {
	if m.activeTab == "" {
		return nil
	}
	session := m.session
	tabID := m.activeTab
	service := m.wb.Service
	return func() tea.Msg {
		resp, err := service.SaveTab(context.Background(), schema.SaveTabRequest{Session: session, TabID: tabID})
		if err != nil {
			return statusMsg{err: err}
		}
		if resp.Tab.SaveError != "" {
			return statusMsg{text: resp.Tab.SaveError}
		}
		return statusMsg{text: "saved " + string(tabID)}
	}
}

func (m *Model) closeActive() tea.Cmd {
	if m.activeTab == "" {
		return nil
	}
	session := m.session
	tabID := m.activeTab
	service := m.wb.Service
	return func() tea.Msg {
		if _, err := service.CloseTab(context.Background(), schema.CloseTabRequest{Session: session, TabID: tabID}); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

// stepTab activates the display neighbor of the active tab.
func (m *Model) stepTab(delta int) tea.Cmd {
	if len(m.tabs) == 0 {
		return nil
	}
	idx := 0
	for i, t := range m.tabs {
		if t.ID == m.activeTab {
			idx = i
			break
		}
	}
	next := (idx + delta + len(m.tabs)) % len(m.tabs)
	target := m.tabs[next].ID
	session := m.session
	service := m.wb.Service
	return func() tea.Msg {
		if _, err := service.SelectTab(context.Background(), schema.SelectTabRequest{Session: session, TabID: target}); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

func (m *Model) recentTab() tea.Cmd {
	session := m.session
	service := m.wb.Service
	return func() tea.Msg {
		if _, err := service.SelectRecentTab(context.Background(), schema.SelectRecentTabRequest{
			Session:   session,
			Direction: schema.CycleForward,
		}); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

func (m *Model) togglePin() tea.Cmd {
	if m.activeTab == "" {
		return nil
	}
	session := m.session
	tabID := m.activeTab
	service := m.wb.Service
	return func() tea.Msg {
		if _, err := service.ToggleTabPin(context.Background(), schema.ToggleTabPinRequest{Session: session, TabID: tabID}); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

func (m *Model) refreshFiles() tea.Cmd {
	session := m.session
	service := m.wb.Service
	return func() tea.Msg {
		if _, err := service.RefreshFiles(context.Background(), schema.RefreshFilesRequest{Session: session}); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "files refreshed"}
	}
}

// startStream kicks off a build or validation stream; its events land in the
// console through the service.
func (m *Model) startStream(kind string) tea.Cmd {
	if m.wb.Client == nil {
		return func() tea.Msg { return statusMsg{text: "no api client configured"} }
	}
	session := m.session
	client := m.wb.Client
	service := m.wb.Service
	m.lastStream = kind
	open := nav.ConsoleOpen
	m.replaceQuery(nav.StatePatch{Console: &open})
	return func() tea.Msg {
		var events <-chan schema.StreamEvent
		var err error
		switch kind {
		case "validate":
			events, err = client.StreamValidation(context.Background(), session)
		default:
			events, err = client.StreamBuild(context.Background(), session)
		}
		if err != nil {
			return statusMsg{err: err}
		}
		go func() {
			for line := range apiclient.ConsoleLines(events) {
				_, _ = service.AppendConsole(context.Background(), schema.AppendConsoleRequest{
					Session: session,
					Lines:   []schema.ConsoleLine{line},
				})
			}
		}()
		return statusMsg{text: kind + " started"}
	}
}

// applyBusEvent folds a service event into the view state.
func (m *Model) applyBusEvent(event eventbus.Event) tea.Cmd {
	switch event.Type {
	case eventbus.EventTree:
		m.tree = event.Tree.Root
		m.rebuildRows()
		return nil
	case eventbus.EventOutput:
		if m.lastStream == "validate" {
			m.validationLines = append(m.validationLines, event.Output.Lines...)
		}
		m.consoleLines = append(m.consoleLines, event.Output.Lines...)
		m.syncConsole()
		return nil
	case eventbus.EventTab:
		return m.applyTabEvent(event.Tab)
	}
	return nil
}

func (m *Model) applyTabEvent(event schema.TabEvent) tea.Cmd {
	previous := m.activeTab
	m.activeTab = event.ActiveTab
	resp, err := m.wb.Service.ListTabs(context.Background(), schema.ListTabsRequest{Session: m.session})
	if err == nil {
		m.tabs = resp.Tabs
		m.activeTab = resp.ActiveTab
	}
	if m.activeTab == "" {
		m.editor.SetValue("")
		return nil
	}
	needsContent := m.activeTab != previous ||
		(event.Type == schema.TabEventUpdated && event.Tab.ID == m.activeTab && event.Tab.Status == schema.TabStatusReady)
	if !needsContent {
		return nil
	}
	session := m.session
	tabID := m.activeTab
	service := m.wb.Service
	return func() tea.Msg {
		resp, err := service.GetTab(context.Background(), schema.GetTabRequest{Session: session, TabID: tabID})
		if err != nil {
			return statusMsg{err: err}
		}
		return tabContentMsg{tabID: string(tabID), content: resp.Content}
	}
}

// applyLocation resolves a committed navigation into workbench state changes.
func (m *Model) applyLocation(location nav.Location) tea.Cmd {
	state, _ := nav.ReadState(location.Values())
	previous := m.state
	m.state = state
	m.layout()

	if state.File != "" && state.File != previous.File && schema.TabID(state.File) != m.activeTab {
		session := m.session
		service := m.wb.Service
		file := state.File
		return func() tea.Msg {
			if _, err := service.OpenFile(context.Background(), schema.OpenFileRequest{
				Session: session,
				Path:    schema.TabID(file),
			}); err != nil {
				return statusMsg{err: err}
			}
			return nil
		}
	}
	return nil
}

// rebuildRows flattens the tree into visible rows, honoring collapsed
// folders.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	if m.tree != nil {
		for _, child := range m.tree.Children {
			m.flatten(child, 0)
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) flatten(node *schema.FileNode, depth int) {
	m.rows = append(m.rows, treeRow{node: node, depth: depth})
	if node.IsDir() && !m.collapsed[node.ID] {
		for _, child := range node.Children {
			m.flatten(child, depth+1)
		}
	}
}

func (m *Model) syncConsole() {
	m.console.SetContent(joinLines(m.visiblePaneLines()))
	m.console.GotoBottom()
}

func (m *Model) visiblePaneLines() []string {
	if m.state.Pane == nav.PaneValidation {
		return m.validationLines
	}
	return m.consoleLines
}
