package forms

import (
	"context"
	"fmt"
	"strings"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

type routeForm struct {
	base
	api    API
	target *models.Route
}

func newRouteForm(m shell.Modal, a API, c Committer) *routeForm {
	f := &routeForm{base: base{kind: shell.FormRoute, commit: c}, api: a}
	var name, bins string
	if e, ok := m.(shell.Edit); ok {
		if r, ok := e.Target.(models.Route); ok {
			f.target = &r
			name = r.Name
			bins = strings.Join(r.BinIDs(), ", ")
		}
	}
	f.fields = []*field{
		textField("Route Name", name, "Colombo North - Morning"),
		textField("Bin IDs (comma separated)", bins, "BIN-001, BIN-002"),
	}
	f.focusFirst()
	return f
}

// SplitBinIDs splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitBinIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (f *routeForm) View() string {
	label := "Create Route"
	if f.target != nil {
		label = "Update Route"
	}
	return f.chrome(f.renderFields(), label)
}

func (f *routeForm) Submit() screens.Task {
	name := f.fields[0].value()
	if name == "" {
		return f.invalid("Route name is required.")
	}
	binIDs := SplitBinIDs(f.fields[1].value())
	if len(binIDs) == 0 {
		return f.invalid("You must add at least one Bin ID.")
	}
	req := models.RouteRequest{Name: name, BinIDs: binIDs}
	if f.target == nil {
		return f.save(func(ctx context.Context) error {
			return f.api.AddRoute(ctx, req)
		}, "Failed to save route")
	}
	id := f.target.ID
	return f.save(func(ctx context.Context) error {
		return f.api.UpdateRoute(ctx, id, req)
	}, "Failed to save route")
}

// routeAssignForm hands a route to the collector of a free truck. The list
// of free trucks is derived again on every render and on submit.
type routeAssignForm struct {
	base
	api      API
	route    *models.Route
	pairings []models.TruckAssignment
	routes   []models.Route
}

func newRouteAssignForm(m shell.Assign, a API, c Committer) *routeAssignForm {
	f := &routeAssignForm{
		base:     base{kind: shell.FormRouteAssign, commit: c},
		api:      a,
		route:    m.Route,
		pairings: m.Pairings,
		routes:   m.Routes,
	}
	f.fields = []*field{selectField("Truck", f.options(), "")}
	return f
}

func (f *routeAssignForm) options() []option {
	opts := []option{{value: "", label: "-- Select a truck --"}}
	for _, p := range screens.AvailableForAssignment(f.pairings, f.routes) {
		opts = append(opts, option{
			value: p.Collector.ID,
			label: fmt.Sprintf("%s (%s)", p.Truck.RegistrationNumber, p.Collector.Name),
		})
	}
	return opts
}

// sync rebuilds the truck options, keeping the current pick when it is
// still available.
func (f *routeAssignForm) sync() {
	sel := f.fields[0]
	current := sel.value()
	sel.options = f.options()
	sel.choice = 0
	for i, o := range sel.options {
		if o.value == current {
			sel.choice = i
		}
	}
}

func (f *routeAssignForm) View() string {
	f.sync()
	head := "Route: (none)"
	if f.route != nil {
		head = "Route: " + f.route.Name
	}
	body := labelStyle.Render(head) + "\n\n" + f.renderFields()
	if len(f.fields[0].options) == 1 {
		body += "\n" + disabledText.Render("No trucks are free for assignment.")
	}
	return f.chrome(body, "Assign Route")
}

func (f *routeAssignForm) Submit() screens.Task {
	f.sync()
	collectorID := f.fields[0].value()
	if collectorID == "" || f.route == nil {
		return f.invalid("Please select a truck to assign.")
	}
	routeID := f.route.ID
	return f.save(func(ctx context.Context) error {
		return f.api.AssignRoute(ctx, routeID, collectorID)
	}, "Failed to assign route")
}
