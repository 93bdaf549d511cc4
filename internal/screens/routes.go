package screens

import (
	"context"
	"strconv"

	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

type RouteAPI interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
	DeleteRoute(ctx context.Context, id string) error
	TruckAssignments(ctx context.Context) ([]models.TruckAssignment, error)
}

type Routes struct {
	api   RouteAPI
	shell shell.Dispatcher

	Pairings Collection[models.TruckAssignment]
	Routes   Collection[models.Route]

	// Selected is the route shown on the map tab.
	Selected string
}

func NewRoutes(a RouteAPI, d shell.Dispatcher) *Routes {
	return &Routes{api: a, shell: d}
}

func (r *Routes) Section() shell.Section { return shell.SectionRouteManagement }

func (r *Routes) Sync(_ shell.TabID, epoch uint64) []Task {
	key := refreshOnly(epoch)
	var tasks []Task
	tasks = appendTask(tasks, fetch(&r.Pairings, key, r.api.TruckAssignments, "Failed to fetch trucks"))
	tasks = appendTask(tasks, fetch(&r.Routes, key, r.api.ListRoutes, "Failed to fetch routes"))
	return tasks
}

// AvailableForAssignment drops pairings whose collector already drives an
// assigned or in-progress route.
func AvailableForAssignment(pairings []models.TruckAssignment, routes []models.Route) []models.TruckAssignment {
	busy := make(map[string]bool)
	for _, route := range routes {
		if route.IsActive() && route.AssignedToID != "" {
			busy[route.AssignedToID] = true
		}
	}
	out := make([]models.TruckAssignment, 0, len(pairings))
	for _, p := range pairings {
		if busy[p.Collector.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *Routes) Edit(route models.Route) {
	r.shell.RequestAction(shell.Edit{Subject: "Route", Target: route})
}

func (r *Routes) Delete(route models.Route) {
	id := route.ID
	r.shell.RequestAction(shell.Delete{Subject: "Route", Command: &shell.DeleteCommand{
		TargetID: id,
		Label:    route.Name,
		Confirm: func(ctx context.Context) error {
			return r.api.DeleteRoute(ctx, id)
		},
	}})
}

// Assign opens the truck picker. The form filters the pairings itself.
func (r *Routes) Assign(route models.Route) {
	rt := route
	r.shell.RequestAction(shell.Assign{
		Subject:  "Route",
		Route:    &rt,
		Pairings: r.Pairings.Items,
		Routes:   r.Routes.Items,
	})
}

// ShowOnMap selects route for the map tab.
func (r *Routes) ShowOnMap(route models.Route) {
	r.Selected = route.ID
}

func (r *Routes) Route(id string) (models.Route, bool) {
	for _, route := range r.Routes.Items {
		if route.ID == id {
			return route, true
		}
	}
	return models.Route{}, false
}

// MapStops normalizes the selected route's stops, or the first route's
// when none is selected.
func (r *Routes) MapStops() []geo.Stop {
	route, ok := r.Route(r.Selected)
	if !ok {
		if len(r.Routes.Items) == 0 {
			return []geo.Stop{}
		}
		route = r.Routes.Items[0]
	}
	return RouteStops(route)
}

// RouteStops is the map sequence of a route in collection order.
func RouteStops(route models.Route) []geo.Stop {
	in := make([]geo.StopInput, len(route.Stops))
	for i, s := range route.Stops {
		in[i] = geo.StopInput{BinID: s.BinID, Latitude: s.Latitude, Longitude: s.Longitude}
	}
	return geo.NormalizeStops(in)
}

func (r *Routes) collectorName(id string) string {
	for _, p := range r.Pairings.Items {
		if p.Collector.ID == id {
			return p.Collector.Name
		}
	}
	return id
}

func (r *Routes) Table(tab shell.TabID) (Table, bool, string) {
	switch tab {
	case shell.TabAssignment:
		out := Table{Columns: []string{"Truck", "Collector", "Available"}}
		free := make(map[string]bool)
		for _, p := range AvailableForAssignment(r.Pairings.Items, r.Routes.Items) {
			free[p.Truck.ID] = true
		}
		for _, p := range r.Pairings.Items {
			avail := "No"
			if free[p.Truck.ID] {
				avail = "Yes"
			}
			out.Rows = append(out.Rows, []string{p.Truck.RegistrationNumber, p.Collector.Name, avail})
			out.IDs = append(out.IDs, p.Truck.ID)
		}
		return out, r.Pairings.Loading || r.Routes.Loading, firstNonEmpty(r.Pairings.Err, r.Routes.Err)
	case shell.TabRouteMap:
		out := Table{Columns: []string{"#", "Bin ID", "Location"}}
		for i, s := range r.MapStops() {
			lat, lng := s.Latitude, s.Longitude
			out.Rows = append(out.Rows, []string{strconv.Itoa(i + 1), s.Label, location(&lat, &lng)})
			out.IDs = append(out.IDs, s.Label)
		}
		return out, r.Routes.Loading, r.Routes.Err
	}

	out := Table{Columns: []string{"Route Name", "Stops", "Status", "Assigned To"}}
	for _, route := range r.Routes.Items {
		assigned := "Unassigned"
		if route.AssignedToID != "" {
			assigned = r.collectorName(route.AssignedToID)
		}
		out.Rows = append(out.Rows, []string{route.Name, strconv.Itoa(len(route.Stops)), route.Status, assigned})
		out.IDs = append(out.IDs, route.ID)
	}
	return out, r.Routes.Loading, r.Routes.Err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
