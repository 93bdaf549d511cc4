package forms

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

type truckForm struct {
	base
	api    API
	target *models.Truck
}

func newTruckForm(m shell.Modal, a API, c Committer) *truckForm {
	f := &truckForm{base: base{kind: shell.FormTruck, commit: c}, api: a}
	var reg, capacity string
	if e, ok := m.(shell.Edit); ok {
		if t, ok := e.Target.(models.Truck); ok {
			f.target = &t
			reg = t.RegistrationNumber
			capacity = strconv.FormatInt(t.CapacityKg, 10)
		}
	}
	f.fields = []*field{
		textField("Registration Number", reg, "WP-CAB-1234"),
		textField("Capacity (kg)", capacity, "5000"),
	}
	f.focusFirst()
	return f
}

func (f *truckForm) View() string {
	label := "Add Truck"
	if f.target != nil {
		label = "Update Truck"
	}
	return f.chrome(f.renderFields(), label)
}

func (f *truckForm) Submit() screens.Task {
	reg := f.fields[0].value()
	if reg == "" {
		return f.invalid("Registration number is required.")
	}
	capacity, err := strconv.ParseInt(f.fields[1].value(), 10, 64)
	if err != nil || capacity <= 0 {
		return f.invalid("Capacity must be a valid positive number.")
	}
	req := models.TruckRequest{RegistrationNumber: reg, Capacity: capacity}
	if f.target == nil {
		return f.save(func(ctx context.Context) error {
			return f.api.AddTruck(ctx, req)
		}, "Failed to save truck")
	}
	id := f.target.ID
	return f.save(func(ctx context.Context) error {
		return f.api.UpdateTruck(ctx, id, req)
	}, "Failed to save truck")
}

// truckAssignForm pairs a truck with a collector.
type truckAssignForm struct {
	base
	api   API
	truck *models.Truck
}

func newTruckAssignForm(m shell.Assign, a API, c Committer) *truckAssignForm {
	opts := []option{{value: "", label: "-- Select a collector --"}}
	for _, col := range m.Collectors {
		opts = append(opts, option{value: col.ID, label: col.Name})
	}
	f := &truckAssignForm{
		base:  base{kind: shell.FormTruckAssign, commit: c},
		api:   a,
		truck: m.Truck,
	}
	f.fields = []*field{selectField("Collector", opts, "")}
	return f
}

func (f *truckAssignForm) View() string {
	head := "Truck: (none)"
	if f.truck != nil {
		head = fmt.Sprintf("Truck: %s (%s)", f.truck.RegistrationNumber, f.truck.ID)
	}
	body := labelStyle.Render(head) + "\n\n" + f.renderFields()
	if len(f.fields[0].options) == 1 {
		body += "\n" + disabledText.Render("No available collectors.")
	}
	return f.chrome(body, "Assign")
}

func (f *truckAssignForm) Submit() screens.Task {
	collectorID := f.fields[0].value()
	if collectorID == "" || f.truck == nil {
		return f.invalid("Please select a collector to assign.")
	}
	truckID := f.truck.ID
	return f.save(func(ctx context.Context) error {
		return f.api.AssignCollector(ctx, truckID, collectorID)
	}, "Failed to assign collector")
}

// trackTruckForm shows where a truck last reported from.
type trackTruckForm struct {
	truck models.Truck
}

func newTrackTruckForm(m shell.Track) *trackTruckForm {
	return &trackTruckForm{truck: m.Truck}
}

func (f *trackTruckForm) Kind() shell.Form     { return shell.FormTrackTruck }
func (f *trackTruckForm) Err() string          { return "" }
func (f *trackTruckForm) Busy() bool           { return false }
func (f *trackTruckForm) Submit() screens.Task { return nil }

func (f *trackTruckForm) Update(tea.KeyMsg) tea.Cmd { return nil }

func (f *trackTruckForm) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tracking: %s\n", f.truck.RegistrationNumber)
	sb.WriteString(labelStyle.Render("Truck ID: "+f.truck.ID) + "\n\n")
	if f.truck.Latitude != nil && f.truck.Longitude != nil {
		fmt.Fprintf(&sb, "Location: %.5f, %.5f\n", *f.truck.Latitude, *f.truck.Longitude)
	} else {
		sb.WriteString("Location not reported\n")
	}
	sb.WriteString("Status:   " + f.truck.Status)
	return sb.String()
}
