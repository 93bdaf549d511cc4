package tui

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/feed"
	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

const routesJSON = `{"success":true,"data":[{"id":"r1","name":"North","status":"CREATED","stops":[
{"binId":"B-1","stopOrder":1,"latitude":6.9,"longitude":79.8},
{"binId":"B-2","stopOrder":2,"latitude":6.95,"longitude":79.85}]}]}`

const maintenanceJSON = `{"success":true,"data":{"content":[
{"id":"m1","binId":"B-1","requestType":"Lid Issue","description":"hinge","priority":"HIGH","status":"PENDING"}]}}`

// backend is a stand-in REST server recording every mutation.
type backend struct {
	mu           sync.Mutex
	deleteStatus int
	unauthorized bool
	mutations    []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		b.mutations = append(b.mutations, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete && b.deleteStatus != 0 {
			w.WriteHeader(b.deleteStatus)
			io.WriteString(w, `{"success":false,"message":"Bin is on an active route"}`)
			return
		}
		io.WriteString(w, `{"success":true}`)
		return
	}

	switch r.URL.Path {
	case "/api/bins":
		if b.unauthorized {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"success":false,"message":"Unauthorized"}`)
			return
		}
		io.WriteString(w, `{"success":true,"data":[{"binId":"B-1","status":"AVAILABLE"},{"binId":"B-2","status":"AVAILABLE","glassLevel":85}]}`)
	case "/api/routes":
		io.WriteString(w, routesJSON)
	case "/api/maintenance-requests":
		io.WriteString(w, maintenanceJSON)
	default:
		io.WriteString(w, `{"success":true,"data":[]}`)
	}
}

func (b *backend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.mutations...)
}

type fakePlanner struct{ calls int }

func (p *fakePlanner) Route(_ context.Context, stops []geo.Stop) (geo.Summary, error) {
	p.calls++
	return geo.Summary{
		Path:           orb.LineString{stops[0].Point(), stops[len(stops)-1].Point()},
		DistanceMeters: 4300,
		Duration:       13 * time.Minute,
	}, nil
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *backend) {
	t.Helper()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })

	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	m := New(context.Background(), api.New(srv.URL, "token"), models.RoleAdmin, opts...)
	drain(t, m, m.syncCmd())
	return m, b
}

// drain runs cmd and every command that follows from it, feeding each
// message back into the model, the way the program loop would.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatal("command chain did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNarrowWindowCollapsesSidebar(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if !m.Shell().SidebarCollapsed() {
		t.Error("sidebar should collapse below the narrow width")
	}
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	if m.Shell().SidebarCollapsed() {
		t.Error("sidebar should expand on a wide terminal")
	}
}

func TestSectionKeysNavigateAndFetch(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, runes("2"))

	if m.Shell().Section() != shell.SectionBinManagement || m.Shell().Tab() != shell.TabAllBins {
		t.Fatalf("at %s/%s", m.Shell().Section(), m.Shell().Tab())
	}
	if len(m.ids) != 2 || m.ids[0] != "B-1" {
		t.Errorf("ids = %v", m.ids)
	}
	if !strings.Contains(m.View(), "B-2") {
		t.Error("table does not show the fetched bins")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Shell().Tab() != shell.TabActiveBins {
		t.Errorf("tab = %s", m.Shell().Tab())
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Shell().Tab() != shell.TabBinMap {
		t.Errorf("tab should wrap to the last, got %s", m.Shell().Tab())
	}
}

func TestDeleteConfirmation(t *testing.T) {
	m, b := newTestModel(t)
	b.mu.Lock()
	b.deleteStatus = http.StatusConflict
	b.mu.Unlock()
	press(t, m, runes("2"))
	press(t, m, runes("d"))

	if _, ok := m.Shell().Modal().(shell.Delete); !ok {
		t.Fatalf("modal = %#v", m.Shell().Modal())
	}
	if !strings.Contains(m.View(), "Are you sure you want to delete this bin?") {
		t.Error("confirmation text missing")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Shell().IsOpen() {
		t.Fatal("rejected delete closed the modal")
	}
	if m.Shell().DeleteError() != "Bin is on an active route" {
		t.Errorf("delete error = %q", m.Shell().DeleteError())
	}

	b.mu.Lock()
	b.deleteStatus = 0
	b.mu.Unlock()
	epoch := m.Shell().Epoch()
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Shell().IsOpen() || m.Shell().Epoch() != epoch+1 {
		t.Errorf("open=%v epoch=%d", m.Shell().IsOpen(), m.Shell().Epoch())
	}
	want := []string{"DELETE /api/bins/B-1", "DELETE /api/bins/B-1"}
	if got := b.calls(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v", got)
	}
}

func TestCursorSurvivesTicksAndRefresh(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, runes("2"))
	if id, ok := m.selectedID(); !ok || id != "B-1" {
		t.Fatalf("selected = %q, %v", id, ok)
	}

	press(t, m, runes("j"))
	m.Update(spinner.TickMsg{})
	press(t, m, runes("r"))
	if id, ok := m.selectedID(); !ok || id != "B-2" {
		t.Fatalf("after move, tick and refresh selected = %q, %v", id, ok)
	}

	press(t, m, runes("d"))
	d, ok := m.Shell().Modal().(shell.Delete)
	if !ok || d.Command == nil || d.Command.TargetID != "B-2" {
		t.Fatalf("modal = %#v", m.Shell().Modal())
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if id, ok := m.selectedID(); ok || id != "" {
		t.Errorf("empty tab selected %q", id)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if id, _ := m.selectedID(); id != "B-1" {
		t.Errorf("tab change should reset the cursor, selected %q", id)
	}
}

func TestMaintenanceDeleteConfirms(t *testing.T) {
	m, b := newTestModel(t)
	press(t, m, runes("2"))
	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Shell().Tab() != shell.TabMaintenance {
		t.Fatalf("tab = %s", m.Shell().Tab())
	}

	press(t, m, runes("d"))
	if len(b.calls()) != 0 {
		t.Fatalf("deleted without confirmation: %v", b.calls())
	}
	if m.Shell().Title() != "Delete Maintenance Request" {
		t.Errorf("title = %q", m.Shell().Title())
	}
	view := m.View()
	if !strings.Contains(view, "Are you sure you want to delete this maintenance request?") ||
		!strings.Contains(view, "This action cannot be undone.") {
		t.Errorf("view = %q", view)
	}

	epoch := m.Shell().Epoch()
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Shell().IsOpen() || m.Shell().Epoch() != epoch+1 {
		t.Errorf("open=%v epoch=%d", m.Shell().IsOpen(), m.Shell().Epoch())
	}
	if got := b.calls(); len(got) != 1 || got[0] != "DELETE /api/maintenance-requests/m1" {
		t.Errorf("calls = %v", got)
	}
}

func TestFormSubmitClosesAndRefreshes(t *testing.T) {
	m, b := newTestModel(t)
	press(t, m, runes("2"))
	press(t, m, runes("a"))
	if m.Shell().Form() != shell.FormBin || m.form == nil {
		t.Fatalf("form = %s", m.Shell().Form())
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.form.Err() != "Bin ID cannot be empty." {
		t.Errorf("err = %q", m.form.Err())
	}

	press(t, m, runes("B-9"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Shell().IsOpen() {
		t.Error("modal should close after a successful save")
	}
	if got := b.calls(); len(got) != 1 || got[0] != "POST /api/bins/add" {
		t.Errorf("calls = %v", got)
	}
}

func TestEscapeClosesForm(t *testing.T) {
	m, b := newTestModel(t)
	press(t, m, runes("3"))
	press(t, m, runes("a"))
	press(t, m, runes("q"))
	if !m.Shell().IsOpen() {
		t.Fatal("typing into a form should not quit or close it")
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Shell().IsOpen() {
		t.Error("esc should close the form")
	}
	if len(b.calls()) != 0 {
		t.Errorf("calls = %v", b.calls())
	}
}

func TestFeedRaisesNotification(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.Shell().UnreadCount()

	m.Update(feed.BinStatusMsg{Update: models.BinStatusUpdate{BinID: "B-1", PlasticLevel: 40}})
	m.Update(feed.BinStatusMsg{Update: models.BinStatusUpdate{BinID: "B-2", PaperLevel: 92}})
	if m.Shell().UnreadCount() != before+1 {
		t.Fatalf("unread = %d", m.Shell().UnreadCount())
	}

	press(t, m, runes("n"))
	if !strings.Contains(m.View(), "Bin B-2 nearly full (92%)") {
		t.Error("notification panel does not list the alert")
	}
	press(t, m, runes("d"))
	if m.Shell().UnreadCount() != before {
		t.Errorf("unread after dismiss = %d", m.Shell().UnreadCount())
	}
}

func TestSessionExpiryQuits(t *testing.T) {
	prev := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(prev)

	b := &backend{unauthorized: true}
	srv := httptest.NewServer(b)
	defer srv.Close()

	m := New(context.Background(), api.New(srv.URL, "stale"), models.RoleAdmin)
	drain(t, m, m.syncCmd())
	if !m.Expired() {
		t.Fatal("401 on the dashboard should end the session")
	}
	if !strings.Contains(m.View(), "Session expired") {
		t.Errorf("view = %q", m.View())
	}
}

func TestRouteMapShowsDirections(t *testing.T) {
	planner := &fakePlanner{}
	m, _ := newTestModel(t, WithPlanner(planner))
	press(t, m, runes("4"))
	press(t, m, runes("m"))

	if m.Shell().Tab() != shell.TabRouteMap {
		t.Fatalf("tab = %s", m.Shell().Tab())
	}
	view := m.View()
	if !strings.Contains(view, "Distance: 4.3 km") || !strings.Contains(view, "Duration: 13 mins") {
		t.Errorf("view = %q", view)
	}

	press(t, m, runes("r"))
	if planner.calls != 1 {
		t.Errorf("planner called %d times for the same stops", planner.calls)
	}
}

func TestExportFlash(t *testing.T) {
	m, _ := newTestModel(t, WithExportDir(t.TempDir()))
	press(t, m, runes("x"))
	flash := m.Shell().Flash()
	if !strings.HasPrefix(flash, "Exporting data from dashboard - overview → ") || !strings.HasSuffix(flash, ".xlsx") {
		t.Errorf("flash = %q", flash)
	}
}
