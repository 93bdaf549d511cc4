package forms

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

type call struct {
	op   string
	args []any
}

type fakeAPI struct {
	calls []call
	fail  map[string]error
}

func (f *fakeAPI) record(op string, args ...any) error {
	f.calls = append(f.calls, call{op, args})
	return f.fail[op]
}

func (f *fakeAPI) AddBin(_ context.Context, binID string) error {
	return f.record("AddBin", binID)
}
func (f *fakeAPI) UpdateBinLocation(_ context.Context, binID string, lat, lng float64) error {
	return f.record("UpdateBinLocation", binID, lat, lng)
}
func (f *fakeAPI) AddTruck(_ context.Context, req models.TruckRequest) error {
	return f.record("AddTruck", req)
}
func (f *fakeAPI) UpdateTruck(_ context.Context, id string, req models.TruckRequest) error {
	return f.record("UpdateTruck", id, req)
}
func (f *fakeAPI) AssignCollector(_ context.Context, truckID, collectorID string) error {
	return f.record("AssignCollector", truckID, collectorID)
}
func (f *fakeAPI) AddRoute(_ context.Context, req models.RouteRequest) error {
	return f.record("AddRoute", req)
}
func (f *fakeAPI) UpdateRoute(_ context.Context, id string, req models.RouteRequest) error {
	return f.record("UpdateRoute", id, req)
}
func (f *fakeAPI) AssignRoute(_ context.Context, routeID, collectorID string) error {
	return f.record("AssignRoute", routeID, collectorID)
}
func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) error {
	return f.record("Register", req)
}
func (f *fakeAPI) CreateCollector(_ context.Context, req models.CollectorCreateRequest) error {
	return f.record("CreateCollector", req)
}
func (f *fakeAPI) UpdateUser(_ context.Context, id, name string) error {
	return f.record("UpdateUser", id, name)
}
func (f *fakeAPI) AddMaintenance(_ context.Context, body models.MaintenanceRequestBody) error {
	return f.record("AddMaintenance", body)
}
func (f *fakeAPI) UpdateMaintenance(_ context.Context, id string, body models.MaintenanceRequestBody) error {
	return f.record("UpdateMaintenance", id, body)
}
func (f *fakeAPI) UpdateMaintenanceStatus(_ context.Context, id, status string) error {
	return f.record("UpdateMaintenanceStatus", id, status)
}
func (f *fakeAPI) UpdateProfile(_ context.Context, name string) (models.User, error) {
	return models.User{FullName: name}, f.record("UpdateProfile", name)
}

func (f *fakeAPI) ops() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

type committer struct{ commits int }

func (c *committer) CommitModalSave() { c.commits++ }

// run executes a task and applies its update, the way the console does.
func run(t *testing.T, task screens.Task) {
	t.Helper()
	if task == nil {
		t.Fatal("expected a task")
	}
	task(context.Background())()
}

func set(f Form, i int, v string) {
	switch f := f.(type) {
	case interface{ fieldAt(int) *field }:
		f.fieldAt(i).input.SetValue(v)
	}
}

func ptr(v float64) *float64 { return &v }

func TestValidationStopsBeforeRequest(t *testing.T) {
	tests := []struct {
		name    string
		section shell.Section
		modal   shell.Modal
		fill    map[int]string
		want    string
	}{
		{"bin id", shell.SectionBinManagement, shell.Add{}, nil, "Bin ID cannot be empty."},
		{"bin coords", shell.SectionBinManagement,
			shell.Edit{Target: models.Bin{BinID: "B-1"}}, map[int]string{0: "north", 1: "79.8"},
			"Latitude and Longitude must be valid numbers."},
		{"truck reg", shell.SectionTruckManagement, shell.Add{}, nil, "Registration number is required."},
		{"truck capacity", shell.SectionTruckManagement, shell.Add{}, map[int]string{0: "WP-1", 1: "-5"},
			"Capacity must be a valid positive number."},
		{"truck assign", shell.SectionTruckManagement, shell.Assign{Truck: &models.Truck{ID: "t1"}}, nil,
			"Please select a collector to assign."},
		{"route name", shell.SectionRouteManagement, shell.Add{}, nil, "Route name is required."},
		{"route bins", shell.SectionRouteManagement, shell.Add{}, map[int]string{0: "North", 1: " , ,"},
			"You must add at least one Bin ID."},
		{"route assign", shell.SectionRouteManagement, shell.Assign{Route: &models.Route{ID: "r1"}}, nil,
			"Please select a truck to assign."},
		{"admin create", shell.SectionUserManagement, shell.Add{Subject: "Admin"}, map[int]string{0: "a", 1: "b"},
			"Cannot add Admin users from this form yet."},
		{"credentials", shell.SectionUserManagement, shell.Add{Subject: "Collector"}, map[int]string{0: "a"},
			"Username and password are required."},
		{"user name", shell.SectionUserManagement, shell.Edit{Target: models.User{ID: "u1", FullName: "x"}},
			map[int]string{0: "   "}, "Name cannot be empty."},
		{"maintenance bin", shell.SectionBinManagement, shell.AddMaintenance{}, nil, "Please select a bin."},
		{"profile name", shell.SectionSettings, shell.EditProfile{User: models.User{FullName: "A"}},
			map[int]string{0: ""}, "Name cannot be empty."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, c := &fakeAPI{}, &committer{}
			f := New(tt.section, tt.modal, a, c)
			for i, v := range tt.fill {
				set(f, i, v)
			}
			if task := f.Submit(); task != nil {
				t.Fatal("invalid input produced a task")
			}
			if f.Err() != tt.want {
				t.Errorf("err = %q, want %q", f.Err(), tt.want)
			}
			if len(a.calls) != 0 || c.commits != 0 {
				t.Errorf("calls=%v commits=%d", a.ops(), c.commits)
			}
			if !strings.Contains(f.View(), tt.want) {
				t.Error("view does not show the validation message")
			}
		})
	}
}

func TestSaveCommitsOnSuccess(t *testing.T) {
	a, c := &fakeAPI{}, &committer{}
	f := New(shell.SectionBinManagement, shell.Edit{Target: models.Bin{BinID: "B-7", Latitude: ptr(6.9), Longitude: ptr(79.8)}}, a, c)
	set(f, 0, "6.95")

	task := f.Submit()
	if !f.Busy() {
		t.Error("form should be busy while saving")
	}
	if again := f.Submit(); again != nil {
		t.Error("second submit while busy should be ignored")
	}
	run(t, task)

	if f.Busy() || f.Err() != "" {
		t.Errorf("busy=%v err=%q", f.Busy(), f.Err())
	}
	if c.commits != 1 {
		t.Errorf("commits = %d", c.commits)
	}
	want := call{"UpdateBinLocation", []any{"B-7", 6.95, 79.8}}
	if len(a.calls) != 1 || !reflect.DeepEqual(a.calls[0], want) {
		t.Errorf("calls = %+v", a.calls)
	}
}

func TestSaveKeepsServerMessageOnFailure(t *testing.T) {
	a := &fakeAPI{fail: map[string]error{
		"AddTruck": &api.Error{Status: 409, Message: "Truck already exists"},
	}}
	c := &committer{}
	f := New(shell.SectionTruckManagement, shell.Add{}, a, c)
	set(f, 0, "WP-1")
	set(f, 1, "5000")

	run(t, f.Submit())

	if f.Err() != "Truck already exists" {
		t.Errorf("err = %q", f.Err())
	}
	if c.commits != 0 || f.Busy() {
		t.Errorf("commits=%d busy=%v", c.commits, f.Busy())
	}
}

func TestSaveFallbackMessage(t *testing.T) {
	a := &fakeAPI{fail: map[string]error{"AddRoute": &api.Error{Status: 500}}}
	f := New(shell.SectionRouteManagement, shell.Add{}, a, &committer{})
	set(f, 0, "North")
	set(f, 1, "B-1")
	run(t, f.Submit())
	if f.Err() != "Failed to save route" {
		t.Errorf("err = %q", f.Err())
	}
}

func TestRouteFormSplitsBinIDs(t *testing.T) {
	a := &fakeAPI{}
	f := New(shell.SectionRouteManagement, shell.Add{}, a, &committer{})
	set(f, 0, "North")
	set(f, 1, " B-1, ,B-2 ,,B-3")
	run(t, f.Submit())

	want := models.RouteRequest{Name: "North", BinIDs: []string{"B-1", "B-2", "B-3"}}
	if len(a.calls) != 1 || !reflect.DeepEqual(a.calls[0].args[0], want) {
		t.Errorf("calls = %+v", a.calls)
	}
}

func TestRouteEditPrefills(t *testing.T) {
	route := models.Route{ID: "r1", Name: "North", Stops: []models.RouteStop{{BinID: "B-2"}, {BinID: "B-1"}}}
	a := &fakeAPI{}
	f := New(shell.SectionRouteManagement, shell.Edit{Target: route}, a, &committer{})
	run(t, f.Submit())
	want := call{"UpdateRoute", []any{"r1", models.RouteRequest{Name: "North", BinIDs: []string{"B-2", "B-1"}}}}
	if len(a.calls) != 1 || !reflect.DeepEqual(a.calls[0], want) {
		t.Errorf("calls = %+v", a.calls)
	}
}

func TestRouteAssignOffersOnlyFreeTrucks(t *testing.T) {
	pairings := []models.TruckAssignment{
		{Truck: models.Truck{ID: "t1", RegistrationNumber: "WP-1"}, Collector: models.CollectorProfile{ID: "c1", Name: "Ann"}},
		{Truck: models.Truck{ID: "t2", RegistrationNumber: "WP-2"}, Collector: models.CollectorProfile{ID: "c2", Name: "Ben"}},
	}
	routes := []models.Route{{ID: "busy", Status: models.RouteStatusInProgress, AssignedToID: "c1"}}
	a, c := &fakeAPI{}, &committer{}
	f := New(shell.SectionRouteManagement, shell.Assign{
		Route:    &models.Route{ID: "r9", Name: "South"},
		Pairings: pairings,
		Routes:   routes,
	}, a, c)

	view := f.View()
	if strings.Contains(view, "Ann") {
		t.Error("busy collector offered")
	}
	f.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(f.View(), "WP-2 (Ben)") {
		t.Errorf("view = %q", f.View())
	}
	run(t, f.Submit())
	want := call{"AssignRoute", []any{"r9", "c2"}}
	if len(a.calls) != 1 || !reflect.DeepEqual(a.calls[0], want) || c.commits != 1 {
		t.Errorf("calls=%+v commits=%d", a.calls, c.commits)
	}
}

func TestTruckAssignPicksCollector(t *testing.T) {
	a := &fakeAPI{}
	f := New(shell.SectionTruckManagement, shell.Assign{
		Truck:      &models.Truck{ID: "t1", RegistrationNumber: "WP-1"},
		Collectors: []models.CollectorProfile{{ID: "c1", Name: "Ann"}, {ID: "c2", Name: "Ben"}},
	}, a, &committer{})
	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	run(t, f.Submit())
	want := call{"AssignCollector", []any{"t1", "c2"}}
	if len(a.calls) != 1 || !reflect.DeepEqual(a.calls[0], want) {
		t.Errorf("calls = %+v", a.calls)
	}
}

func TestUserCreateByRole(t *testing.T) {
	a := &fakeAPI{}
	f := New(shell.SectionUserManagement, shell.Add{Subject: "Collector"}, a, &committer{})
	set(f, 0, "ann@example.com")
	set(f, 1, "secret")
	set(f, 2, "Ann")
	run(t, f.Submit())

	f = New(shell.SectionUserManagement, shell.Add{Subject: "Bin User"}, a, &committer{})
	for i, v := range []string{"bob@example.com", "pw", "Bob", "12 Main St", "0771234567"} {
		set(f, i, v)
	}
	run(t, f.Submit())

	if got := a.ops(); !reflect.DeepEqual(got, []string{"CreateCollector", "Register"}) {
		t.Fatalf("ops = %v", got)
	}
	reg := a.calls[1].args[0].(models.RegisterRequest)
	if reg.Address != "12 Main St" || reg.MobileNumber != "0771234567" {
		t.Errorf("register = %+v", reg)
	}
}

func TestMaintenanceStatusChangeIsSeparateCall(t *testing.T) {
	req := models.MaintenanceRequest{
		ID: "m1", BinID: "B-1", RequestType: "Repair", Description: "lid",
		Priority: models.PriorityHigh, Status: models.MaintenancePending,
	}
	bins := []models.Bin{{BinID: "B-1"}, {BinID: "B-2"}}

	a := &fakeAPI{}
	f := New(shell.SectionBinManagement, shell.EditMaintenance{Request: req, Bins: bins}, a, &committer{})
	run(t, f.Submit())
	if got := a.ops(); !reflect.DeepEqual(got, []string{"UpdateMaintenance"}) {
		t.Errorf("unchanged status: ops = %v", got)
	}

	a = &fakeAPI{fail: map[string]error{"UpdateMaintenanceStatus": errors.New("boom")}}
	c := &committer{}
	f = New(shell.SectionBinManagement, shell.EditMaintenance{Request: req, Bins: bins}, a, c)
	mf := f.(*maintenanceForm)
	mf.fields[maintStatus].choice = 2
	run(t, f.Submit())
	want := []string{"UpdateMaintenance", "UpdateMaintenanceStatus"}
	if got := a.ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v", got)
	}
	if c.commits != 1 || f.Err() != "" {
		t.Errorf("status failure should not block the save: commits=%d err=%q", c.commits, f.Err())
	}
}

func TestMaintenanceDefaults(t *testing.T) {
	a := &fakeAPI{}
	f := New(shell.SectionDashboard, shell.AddMaintenance{Bins: []models.Bin{{BinID: "B-1"}}}, a, &committer{})
	mf := f.(*maintenanceForm)
	if len(mf.fields) != 4 {
		t.Fatalf("new request should not offer status, fields = %d", len(mf.fields))
	}
	mf.fields[maintBin].choice = 1
	set(f, maintDescription, "Sensor stuck")
	run(t, f.Submit())
	body := a.calls[0].args[0].(models.MaintenanceRequestBody)
	if body.RequestType != "Repair" || body.Priority != models.PriorityMedium || body.BinID != "B-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestFallbackFormCommitsWithoutRequest(t *testing.T) {
	a, c := &fakeAPI{}, &committer{}
	f := New(shell.SectionDashboard, shell.Complete{Target: models.Bin{BinID: "B-3"}}, a, c)
	if f.Kind() != shell.FormFallback {
		t.Fatalf("kind = %s", f.Kind())
	}
	view := f.View()
	if !strings.Contains(view, "Form fields for 'complete' on a item would go here.") ||
		!strings.Contains(view, "Item ID: B-3") {
		t.Errorf("view = %q", view)
	}
	run(t, f.Submit())
	if c.commits != 1 || len(a.calls) != 0 {
		t.Errorf("commits=%d calls=%v", c.commits, a.ops())
	}
}

func TestTrackTruckIsReadOnly(t *testing.T) {
	lat, lng := 6.9, 79.86
	f := New(shell.SectionTruckManagement, shell.Track{Truck: models.Truck{
		ID: "t1", RegistrationNumber: "WP-1", Latitude: &lat, Longitude: &lng,
	}}, &fakeAPI{}, &committer{})
	if f.Submit() != nil {
		t.Error("tracking has nothing to save")
	}
	if !strings.Contains(f.View(), "Location: 6.90000, 79.86000") {
		t.Errorf("view = %q", f.View())
	}
}

func TestDeleteHasNoForm(t *testing.T) {
	if f := New(shell.SectionBinManagement, shell.Delete{}, &fakeAPI{}, &committer{}); f != nil {
		t.Errorf("delete resolved to %T", f)
	}
}

func TestTabCyclesFocus(t *testing.T) {
	f := New(shell.SectionTruckManagement, shell.Add{}, &fakeAPI{}, &committer{})
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42")})
	tf := f.(*truckForm)
	if tf.fields[1].input.Value() != "42" || tf.fields[0].input.Value() != "" {
		t.Errorf("reg=%q capacity=%q", tf.fields[0].input.Value(), tf.fields[1].input.Value())
	}
}

func (b *base) fieldAt(i int) *field { return b.fields[i] }
