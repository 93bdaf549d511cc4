package screens

import (
	"context"
	"fmt"
	"log"

	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

// BinAPI is what the bin screen calls.
type BinAPI interface {
	ListBins(ctx context.Context, status string) ([]models.Bin, error)
	FetchOwnedBins(ctx context.Context) ([]models.Bin, error)
	DeleteBin(ctx context.Context, binID string) error
	SelfAssignBin(ctx context.Context, binID string) error
	ListMaintenance(ctx context.Context) ([]models.MaintenanceRequest, error)
	DeleteMaintenance(ctx context.Context, id string) error
}

type Bins struct {
	api    BinAPI
	shell  shell.Dispatcher
	viewer models.Role
	active activation

	Available   Collection[models.Bin]
	Assigned    Collection[models.Bin]
	Maintenance Collection[models.MaintenanceRequest]
	// All feeds the bin map and the maintenance form's bin picker.
	All         Collection[models.Bin]

	// ActionErr is the last failed row action outside a modal.
	ActionErr string
}

func NewBins(a BinAPI, d shell.Dispatcher, viewer models.Role) *Bins {
	return &Bins{api: a, shell: d, viewer: viewer}
}

func (b *Bins) Section() shell.Section { return shell.SectionBinManagement }

func (b *Bins) Sync(tab shell.TabID, epoch uint64) []Task {
	key := b.active.key(tab, epoch)
	var tasks []Task
	switch tab {
	case shell.TabAllBins:
		tasks = appendTask(tasks, fetch(&b.Available, key, func(ctx context.Context) ([]models.Bin, error) {
			return b.api.ListBins(ctx, models.BinStatusAvailable)
		}, "Failed to fetch available bins"))
	case shell.TabActiveBins:
		tasks = appendTask(tasks, fetch(&b.Assigned, key, b.assignedBins, "Failed to load assigned bins"))
	case shell.TabMaintenance:
		tasks = appendTask(tasks, fetch(&b.Maintenance, key, b.api.ListMaintenance, "Failed to fetch maintenance requests"))
	}
	tasks = appendTask(tasks, fetch(&b.All, refreshOnly(epoch), func(ctx context.Context) ([]models.Bin, error) {
		return b.api.ListBins(ctx, "")
	}, "Failed to fetch bins"))
	return tasks
}

// assignedBins reads the owned-bins endpoint and falls back to the status
// filter when it fails.
func (b *Bins) assignedBins(ctx context.Context) ([]models.Bin, error) {
	bins, err := b.api.FetchOwnedBins(ctx)
	if err == nil {
		return bins, nil
	}
	log.Printf("⚠️ [SCREENS] /api/bins/fetch failed (%v), falling back to status filter", err)
	bins, err = b.api.ListBins(ctx, models.BinStatusAssigned)
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned bins: %w", err)
	}
	return bins, nil
}

// CanSelfAssign reports whether viewer may claim bin from the list.
func CanSelfAssign(viewer models.Role, bin models.Bin) bool {
	return viewer == models.RoleBinOwner && bin.Status == models.BinStatusAvailable
}

func (b *Bins) CanSelfAssign(bin models.Bin) bool {
	return CanSelfAssign(b.viewer, bin)
}

func (b *Bins) Edit(bin models.Bin) {
	b.shell.RequestAction(shell.Edit{Subject: "Bin", Target: bin})
}

func (b *Bins) Delete(bin models.Bin) {
	id := bin.BinID
	b.shell.RequestAction(shell.Delete{Subject: "Bin", Command: &shell.DeleteCommand{
		TargetID: id,
		Label:    id,
		Confirm: func(ctx context.Context) error {
			return b.api.DeleteBin(ctx, id)
		},
	}})
}

// SelfAssign claims bin for the viewer. It returns nil when the viewer
// may not claim it.
func (b *Bins) SelfAssign(bin models.Bin) Task {
	if !b.CanSelfAssign(bin) {
		return nil
	}
	id := bin.BinID
	return mutate(b.shell, func(ctx context.Context) error {
		return b.api.SelfAssignBin(ctx, id)
	}, b.setActionErr, "Failed to assign bin")
}

func (b *Bins) NewMaintenance() {
	b.shell.RequestAction(shell.AddMaintenance{Bins: b.All.Items})
}

func (b *Bins) EditMaintenance(req models.MaintenanceRequest) {
	b.shell.RequestAction(shell.EditMaintenance{Request: req, Bins: b.All.Items})
}

func (b *Bins) DeleteMaintenance(req models.MaintenanceRequest) {
	id := req.ID
	b.shell.RequestAction(shell.Delete{Subject: shell.SubjectMaintenance, Command: &shell.DeleteCommand{
		TargetID: id,
		Label:    req.DisplayName(),
		Confirm: func(ctx context.Context) error {
			return b.api.DeleteMaintenance(ctx, id)
		},
	}})
}

func (b *Bins) setActionErr(msg string) { b.ActionErr = msg }

// MapStops is the bin map: every located bin in list order.
func (b *Bins) MapStops() []geo.Stop {
	in := make([]geo.StopInput, len(b.All.Items))
	for i, bin := range b.All.Items {
		in[i] = geo.StopInput{BinID: bin.BinID, Latitude: bin.Latitude, Longitude: bin.Longitude}
	}
	return geo.NormalizeStops(in)
}

// Bin finds a bin by id in any loaded collection.
func (b *Bins) Bin(id string) (models.Bin, bool) {
	for _, items := range [][]models.Bin{b.Available.Items, b.Assigned.Items, b.All.Items} {
		for _, bin := range items {
			if bin.BinID == id {
				return bin, true
			}
		}
	}
	return models.Bin{}, false
}

func (b *Bins) MaintenanceRequest(id string) (models.MaintenanceRequest, bool) {
	for _, m := range b.Maintenance.Items {
		if m.ID == id {
			return m, true
		}
	}
	return models.MaintenanceRequest{}, false
}

func (b *Bins) Table(tab shell.TabID) (Table, bool, string) {
	switch tab {
	case shell.TabAllBins:
		t := Table{Columns: []string{"Bin ID", "Status"}}
		for _, bin := range b.Available.Items {
			t.Rows = append(t.Rows, []string{bin.BinID, bin.Status})
			t.IDs = append(t.IDs, bin.BinID)
		}
		return t, b.Available.Loading, b.Available.Err
	case shell.TabActiveBins:
		t := Table{Columns: []string{"Bin ID", "Status", "Assigned Date", "Location"}}
		for _, bin := range b.Assigned.Items {
			t.Rows = append(t.Rows, []string{bin.BinID, bin.Status, orDash(deref(bin.AssignedDate)), location(bin.Latitude, bin.Longitude)})
			t.IDs = append(t.IDs, bin.BinID)
		}
		return t, b.Assigned.Loading, b.Assigned.Err
	case shell.TabMaintenance:
		t := Table{Columns: []string{"Bin ID", "Issue", "Priority", "Reported Date", "Status"}}
		for _, m := range b.Maintenance.Items {
			t.Rows = append(t.Rows, []string{m.BinID, m.RequestType, m.Priority, orDash(m.CreatedAt), m.Status})
			t.IDs = append(t.IDs, m.ID)
		}
		return t, b.Maintenance.Loading, b.Maintenance.Err
	case shell.TabBinMap:
		t := Table{Columns: []string{"#", "Bin ID", "Location", "Fill %"}}
		for i, s := range b.MapStops() {
			lat, lng := s.Latitude, s.Longitude
			t.Rows = append(t.Rows, []string{fmt.Sprint(i + 1), s.Label, location(&lat, &lng), fmt.Sprint(b.levelOf(s.Label))})
			t.IDs = append(t.IDs, s.Label)
		}
		return t, b.All.Loading, b.All.Err
	}
	return Table{}, false, ""
}

func (b *Bins) levelOf(binID string) int {
	bin, _ := b.Bin(binID)
	return bin.MaxLevel()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func location(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f, %.4f", *lat, *lng)
}
