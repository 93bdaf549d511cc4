package screens

import (
	"context"
	"strconv"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

type TruckAPI interface {
	ListTrucks(ctx context.Context, status string) ([]models.Truck, error)
	DeleteTruck(ctx context.Context, id string) error
	AvailableCollectors(ctx context.Context) ([]models.CollectorProfile, error)
	TruckAssignments(ctx context.Context) ([]models.TruckAssignment, error)
}

type Trucks struct {
	api    TruckAPI
	shell  shell.Dispatcher
	active activation

	Fleet      Collection[models.Truck]
	Pairings   Collection[models.TruckAssignment]
	Collectors Collection[models.CollectorProfile]
}

func NewTrucks(a TruckAPI, d shell.Dispatcher) *Trucks {
	return &Trucks{api: a, shell: d}
}

func (t *Trucks) Section() shell.Section { return shell.SectionTruckManagement }

func (t *Trucks) Sync(tab shell.TabID, epoch uint64) []Task {
	key := t.active.key(tab, epoch)
	var tasks []Task
	switch tab {
	case shell.TabFleet:
		tasks = appendTask(tasks, fetch(&t.Fleet, key, func(ctx context.Context) ([]models.Truck, error) {
			return t.api.ListTrucks(ctx, models.TruckStatusAvailable)
		}, "Failed to fetch trucks"))
	case shell.TabOnRoute:
		tasks = appendTask(tasks, fetch(&t.Pairings, key, t.api.TruckAssignments, "Failed to fetch assigned trucks"))
	}
	tasks = appendTask(tasks, fetch(&t.Collectors, refreshOnly(epoch), t.api.AvailableCollectors, "Failed to fetch collectors"))
	return tasks
}

func (t *Trucks) Edit(truck models.Truck) {
	t.shell.RequestAction(shell.Edit{Subject: "Truck", Target: truck})
}

func (t *Trucks) Delete(truck models.Truck) {
	id := truck.ID
	t.shell.RequestAction(shell.Delete{Subject: "Truck", Command: &shell.DeleteCommand{
		TargetID: id,
		Label:    truck.RegistrationNumber,
		Confirm: func(ctx context.Context) error {
			return t.api.DeleteTruck(ctx, id)
		},
	}})
}

// Assign opens the collector picker for truck with the collectors loaded
// so far.
func (t *Trucks) Assign(truck models.Truck) {
	tr := truck
	t.shell.RequestAction(shell.Assign{Subject: "Truck", Truck: &tr, Collectors: t.Collectors.Items})
}

func (t *Trucks) Track(truck models.Truck) {
	t.shell.RequestAction(shell.Track{Subject: "Truck", Truck: truck})
}

// Truck finds a truck by id in the fleet or the pairings.
func (t *Trucks) Truck(id string) (models.Truck, bool) {
	for _, truck := range t.Fleet.Items {
		if truck.ID == id {
			return truck, true
		}
	}
	for _, p := range t.Pairings.Items {
		if p.Truck.ID == id {
			return p.Truck, true
		}
	}
	return models.Truck{}, false
}

func (t *Trucks) Table(tab shell.TabID) (Table, bool, string) {
	switch tab {
	case shell.TabFleet:
		out := Table{Columns: []string{"Truck ID", "Plate Number", "Status", "Capacity(kg)"}}
		for _, truck := range t.Fleet.Items {
			out.Rows = append(out.Rows, []string{truck.ID, truck.RegistrationNumber, truck.Status, strconv.FormatInt(truck.CapacityKg, 10)})
			out.IDs = append(out.IDs, truck.ID)
		}
		return out, t.Fleet.Loading, t.Fleet.Err
	case shell.TabOnRoute:
		out := Table{Columns: []string{"Truck ID", "Plate Number", "Driver", "Capacity", "Status", "Assigned Date"}}
		for _, p := range t.Pairings.Items {
			out.Rows = append(out.Rows, []string{
				p.Truck.ID,
				p.Truck.RegistrationNumber,
				orDash(p.Collector.Name),
				strconv.FormatInt(p.Truck.CapacityKg, 10) + " kg",
				p.Truck.Status,
				orDash(p.AssignedDate),
			})
			out.IDs = append(out.IDs, p.Truck.ID)
		}
		return out, t.Pairings.Loading, t.Pairings.Err
	}
	return Table{}, false, ""
}
