// Package tui is the bubbletea program of the admin console. It owns the
// terminal and drives the shell, the screens and the forms: network work
// runs in commands, and every result is applied back on the Update loop.
package tui

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/export"
	"smartwaste-dashboard/internal/feed"
	"smartwaste-dashboard/internal/forms"
	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

// RoutePlanner computes the driving path of the route map.
type RoutePlanner interface {
	Route(ctx context.Context, stops []geo.Stop) (geo.Summary, error)
}

type Option func(*Model)

func WithPlanner(p RoutePlanner) Option {
	return func(m *Model) { m.planner = p }
}

// WithExportDir enables exports into dir.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

func WithNarrowWidth(cols int) Option {
	return func(m *Model) { m.narrowWidth = cols }
}

func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

func WithTheme(t Theme) Option {
	return func(m *Model) { m.styles = t.styles() }
}

// taskDoneMsg carries the result of a screen or form task.
type taskDoneMsg struct {
	apply screens.Update
}

type deleteDoneMsg struct {
	pending shell.PendingDelete
	err     error
}

type directionsMsg struct {
	signature string
	summary   geo.Summary
	err       error
}

type syncKey struct {
	section shell.Section
	tab     shell.TabID
	epoch   uint64
}

type Model struct {
	ctx     context.Context
	shell   *shell.Shell
	reg     *screens.Registry
	api     forms.API
	planner RoutePlanner

	keys   KeyMap
	styles styles
	table  table.Model
	spin   spinner.Model
	help   help.Model
	meter  progress.Model

	exportDir   string
	narrowWidth int

	form     forms.Form
	formGen  uint64
	synced   syncKey
	inFlight int
	ids      []string
	loading  bool
	loadErr  string

	// tableView is the section/tab the table cursor belongs to.
	tableView tableView

	width  int
	height int

	showNotes  bool
	noteCursor int
	feedState  string

	routeSig string
	route    *geo.Summary
	routeErr string

	expired bool
}

type tableView struct {
	section shell.Section
	tab     shell.TabID
}

// New builds the console for a signed-in viewer. ctx bounds every network
// call the console makes.
func New(ctx context.Context, client *api.Client, viewer models.Role, opts ...Option) *Model {
	m := &Model{
		ctx:    ctx,
		api:    client,
		keys:   DefaultKeyMap,
		styles: DefaultTheme.styles(),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:   help.New(),
		meter:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.shell = shell.New(shell.WithNarrowWidth(m.narrowWidth))
	m.reg = screens.NewRegistry(client, m.shell, viewer, func(n []models.Notification) {
		m.shell.SeedNotifications(n)
	})
	if m.exportDir != "" {
		m.shell.SetExporter(export.New(m.exportDir, m.reg))
	}

	m.table = table.New(table.WithFocused(true), table.WithHeight(12))
	m.formGen = m.shell.ModalGeneration()
	m.refreshTable()
	return m
}

// Shell exposes the state machine, mainly for tests and the CLI.
func (m *Model) Shell() *shell.Shell { return m.shell }

// Expired reports whether the backend rejected the session.
func (m *Model) Expired() bool { return m.expired }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.syncCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.shell.SetViewportWidth(msg.Width)
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-12, 4))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))

	case taskDoneMsg:
		m.inFlight--
		if msg.apply != nil {
			msg.apply()
		}

	case deleteDoneMsg:
		m.shell.FinishDelete(msg.pending, msg.err)

	case directionsMsg:
		if msg.signature == m.routeSig {
			summary := msg.summary
			m.route = &summary
			m.routeErr = ""
			if msg.err != nil {
				m.routeErr = msg.err.Error()
			}
		}

	case feed.BinStatusMsg:
		if n, ok := feed.Alert(msg.Update, time.Now()); ok {
			m.shell.PushNotification(n)
		}

	case feed.EventMsg:
		log.Printf("📡 [TUI] feed event %q", msg.Event.Type)

	case feed.StatusMsg:
		if msg.Connected {
			m.feedState = "live"
		} else {
			m.feedState = "offline"
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.settle())
	if m.reg.Dashboard.SessionExpired() && !m.expired {
		m.expired = true
		log.Printf("🔒 [TUI] session expired")
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

// settle brings derived state in line with the shell after any change:
// fetches for the active tab, the form of the open modal, the visible table
// and the route map path.
func (m *Model) settle() tea.Cmd {
	if gen := m.shell.ModalGeneration(); gen != m.formGen {
		m.formGen = gen
		m.form = nil
		if modal := m.shell.Modal(); modal != nil {
			m.form = forms.New(m.shell.Section(), modal, m.api, m.shell)
		}
	}
	sync := m.syncCmd()
	m.refreshTable()
	return tea.Batch(sync, m.directionsCmd())
}

func (m *Model) syncCmd() tea.Cmd {
	want := syncKey{m.shell.Section(), m.shell.Tab(), m.shell.Epoch()}
	if want == m.synced {
		return nil
	}
	m.synced = want
	screen := m.reg.For(want.section)
	if screen == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, task := range screen.Sync(want.tab, want.epoch) {
		cmds = append(cmds, m.run(task))
	}
	return tea.Batch(cmds...)
}

// run turns a task into a command whose message applies the result.
func (m *Model) run(task screens.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	m.inFlight++
	ctx := m.ctx
	return func() tea.Msg {
		return taskDoneMsg{apply: task(ctx)}
	}
}

func (m *Model) directionsCmd() tea.Cmd {
	if m.planner == nil || m.shell.Section() != shell.SectionRouteManagement || m.shell.Tab() != shell.TabRouteMap {
		return nil
	}
	stops := m.reg.Routes.MapStops()
	sig := geo.Signature(stops)
	if sig == m.routeSig {
		return nil
	}
	m.routeSig = sig
	m.route = nil
	ctx, planner := m.ctx, m.planner
	return func() tea.Msg {
		summary, err := planner.Route(ctx, stops)
		return directionsMsg{signature: sig, summary: summary, err: err}
	}
}

func (m *Model) refreshTable() {
	screen := m.reg.For(m.shell.Section())
	if screen == nil {
		return
	}
	t, loading, errMsg := screen.Table(m.shell.Tab())
	m.loading, m.loadErr = loading, errMsg
	m.ids = t.IDs

	width := m.contentWidth()
	cols := make([]table.Column, len(t.Columns))
	colWidth := max(8, width/max(1, len(cols))-2)
	for i, title := range t.Columns {
		cols[i] = table.Column{Title: title, Width: colWidth}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = table.Row(r)
	}

	// Emptying first keeps SetColumns from rendering old rows against new
	// columns; it also drops the cursor, so it is restored afterwards.
	cursor := m.table.Cursor()
	view := tableView{m.shell.Section(), m.shell.Tab()}
	if view != m.tableView {
		m.tableView = view
		cursor = 0
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetCursor(min(max(cursor, 0), max(len(rows)-1, 0)))
}

func (m *Model) contentWidth() int {
	width := m.width
	if width == 0 {
		width = 120
	}
	if m.shell.SidebarCollapsed() {
		return width - 6
	}
	return width - 24
}

// selectedID is the entity id of the highlighted row.
func (m *Model) selectedID() (string, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.ids) {
		return "", false
	}
	return m.ids[c], true
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.shell.IsOpen() {
		return m.handleModalKey(msg)
	}
	if m.showNotes {
		return m.handleNotesKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Section):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			if sections := shell.Sections(); n >= 1 && n <= len(sections) {
				m.shell.ChangeSection(sections[n-1])
			}
		}
	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.Sidebar):
		m.shell.ToggleSidebar()
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
	case key.Matches(msg, m.keys.Refresh):
		m.shell.RequestAction(shell.Refresh{})
	case key.Matches(msg, m.keys.Export):
		m.shell.RequestAction(shell.Export{})
	case key.Matches(msg, m.keys.Notifications):
		m.showNotes = true
		m.noteCursor = 0
	default:
		return m.rowAction(msg)
	}
	return nil
}

func (m *Model) cycleTab(step int) {
	tabs := m.shell.Section().Tabs()
	if len(tabs) == 0 {
		return
	}
	current := 0
	for i, t := range tabs {
		if t.ID == m.shell.Tab() {
			current = i
		}
	}
	next := (current + step + len(tabs)) % len(tabs)
	m.shell.ChangeTab(tabs[next].ID)
}

func (m *Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	switch m.shell.Form() {
	case shell.FormDeleteConfirm:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.confirmDelete()
		case key.Matches(msg, m.keys.Cancel):
			if !m.shell.Deleting() {
				m.shell.CloseModal()
			}
		}
		return nil
	case shell.FormTrackTruck:
		if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel) {
			m.shell.CloseModal()
		}
		return nil
	}

	if m.form == nil {
		if key.Matches(msg, m.keys.Cancel) {
			m.shell.CloseModal()
		}
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if !m.form.Busy() {
			m.shell.CloseModal()
		}
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.run(m.form.Submit())
	}
	return m.form.Update(msg)
}

// confirmDelete runs the delete command off the loop; the outcome comes
// back as a deleteDoneMsg.
func (m *Model) confirmDelete() tea.Cmd {
	pending, ok := m.shell.BeginDelete()
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{pending: pending, err: pending.Command.Confirm(ctx)}
	}
}

func (m *Model) handleNotesKey(msg tea.KeyMsg) tea.Cmd {
	notes := m.shell.Notifications()
	switch {
	case key.Matches(msg, m.keys.Notifications), key.Matches(msg, m.keys.Cancel):
		m.showNotes = false
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.noteCursor = max(m.noteCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.noteCursor = min(m.noteCursor+1, max(len(notes)-1, 0))
	case key.Matches(msg, m.keys.Delete):
		if m.noteCursor < len(notes) {
			m.shell.RequestAction(shell.DismissNotification{ID: notes[m.noteCursor].ID})
			m.noteCursor = min(m.noteCursor, max(len(notes)-2, 0))
		}
	case key.Matches(msg, m.keys.Clear):
		m.shell.RequestAction(shell.ClearNotifications{})
		m.noteCursor = 0
	}
	return nil
}
