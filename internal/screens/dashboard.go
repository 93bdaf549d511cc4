package screens

import (
	"context"
	"fmt"
	"strconv"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

// DashboardAPI is what the dashboard reads.
type DashboardAPI interface {
	ListBins(ctx context.Context, status string) ([]models.Bin, error)
	ListTrucks(ctx context.Context, status string) ([]models.Truck, error)
	ListMaintenance(ctx context.Context) ([]models.MaintenanceRequest, error)
	ListNotifications(ctx context.Context) ([]models.Notification, error)
}

// Dashboard summarizes bins, trucks and maintenance and seeds the
// notification feed.
type Dashboard struct {
	api  DashboardAPI
	seed func([]models.Notification)

	Bins          Collection[models.Bin]
	Available     Collection[models.Truck]
	InService     Collection[models.Truck]
	Maintenance   Collection[models.MaintenanceRequest]
	Notifications Collection[models.Notification]
}

// NewDashboard builds the dashboard. seed receives the notification list
// after each successful fetch.
func NewDashboard(a DashboardAPI, seed func([]models.Notification)) *Dashboard {
	return &Dashboard{api: a, seed: seed}
}

func (d *Dashboard) Section() shell.Section { return shell.SectionDashboard }

func (d *Dashboard) Sync(_ shell.TabID, epoch uint64) []Task {
	key := refreshOnly(epoch)
	var tasks []Task
	tasks = appendTask(tasks, fetch(&d.Bins, key, func(ctx context.Context) ([]models.Bin, error) {
		return d.api.ListBins(ctx, "")
	}, "Failed to fetch bins"))
	tasks = appendTask(tasks, fetch(&d.Available, key, func(ctx context.Context) ([]models.Truck, error) {
		return d.api.ListTrucks(ctx, models.TruckStatusAvailable)
	}, "Failed to fetch available trucks"))
	tasks = appendTask(tasks, fetch(&d.InService, key, func(ctx context.Context) ([]models.Truck, error) {
		return d.api.ListTrucks(ctx, models.TruckStatusInService)
	}, "Failed to fetch trucks in service"))
	tasks = appendTask(tasks, fetch(&d.Maintenance, key, d.api.ListMaintenance, "Failed to fetch maintenance requests"))

	if d.Notifications.due(key) {
		tasks = append(tasks, func(ctx context.Context) Update {
			items, err := d.api.ListNotifications(ctx)
			return func() {
				d.Notifications.set(items, err, "Failed to fetch notifications")
				if err == nil && d.seed != nil {
					d.seed(d.Notifications.Items)
				}
			}
		})
	}
	return tasks
}

// SessionExpired reports whether the backend rejected the token.
func (d *Dashboard) SessionExpired() bool {
	return d.Bins.Unauthorized || d.Available.Unauthorized || d.InService.Unauthorized ||
		d.Maintenance.Unauthorized || d.Notifications.Unauthorized
}

func (d *Dashboard) loading() bool {
	return d.Bins.Loading || d.Available.Loading || d.InService.Loading || d.Maintenance.Loading
}

func (d *Dashboard) firstErr() string {
	for _, e := range []string{d.Bins.Err, d.Available.Err, d.InService.Err, d.Maintenance.Err} {
		if e != "" {
			return e
		}
	}
	return ""
}

// FullBins counts bins with any compartment at or above the full threshold.
func (d *Dashboard) FullBins() int {
	n := 0
	for _, b := range d.Bins.Items {
		if b.MaxLevel() >= models.FullLevelThreshold {
			n++
		}
	}
	return n
}

func (d *Dashboard) Table(tab shell.TabID) (Table, bool, string) {
	switch tab {
	case shell.TabStatistics:
		t := Table{Columns: []string{"Bin ID", "Plastic %", "Paper %", "Glass %", "Status"}}
		for _, b := range d.Bins.Items {
			p, pa, g := b.Levels()
			t.Rows = append(t.Rows, []string{b.BinID, strconv.Itoa(p), strconv.Itoa(pa), strconv.Itoa(g), b.Status})
			t.IDs = append(t.IDs, b.BinID)
		}
		return t, d.Bins.Loading, d.Bins.Err
	case shell.TabAlerts:
		t := Table{Columns: []string{"Priority", "Title", "Message", "Received"}}
		for _, n := range d.Notifications.Items {
			t.Rows = append(t.Rows, []string{n.Priority, n.Title, n.Message, n.CreatedAt})
			t.IDs = append(t.IDs, n.ID)
		}
		return t, d.Notifications.Loading, d.Notifications.Err
	}

	t := Table{Columns: []string{"Metric", "Value"}}
	t.Rows = [][]string{
		{"Total bins", strconv.Itoa(len(d.Bins.Items))},
		{"Bins over " + strconv.Itoa(models.FullLevelThreshold) + "%", strconv.Itoa(d.FullBins())},
		{"Trucks available", strconv.Itoa(len(d.Available.Items))},
		{"Trucks in service", strconv.Itoa(len(d.InService.Items))},
		{"Maintenance requests", strconv.Itoa(len(d.Maintenance.Items))},
		{"Unread alerts", fmt.Sprint(unread(d.Notifications.Items))},
	}
	return t, d.loading(), d.firstErr()
}

func unread(ns []models.Notification) int {
	n := 0
	for _, item := range ns {
		if !item.IsRead {
			n++
		}
	}
	return n
}
