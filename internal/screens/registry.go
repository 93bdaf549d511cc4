package screens

import (
	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

// Registry holds one screen per section.
type Registry struct {
	Dashboard *Dashboard
	Bins      *Bins
	Trucks    *Trucks
	Routes    *Routes
	Users     *Users
	Settings  *Settings
}

// NewRegistry wires every screen to the same client and dispatcher.
func NewRegistry(c *api.Client, d shell.Dispatcher, viewer models.Role, seed func([]models.Notification)) *Registry {
	return &Registry{
		Dashboard: NewDashboard(c, seed),
		Bins:      NewBins(c, d, viewer),
		Trucks:    NewTrucks(c, d),
		Routes:    NewRoutes(c, d),
		Users:     NewUsers(c, d),
		Settings:  NewSettings(c, d),
	}
}

// For returns the screen of section, or nil.
func (r *Registry) For(section shell.Section) Screen {
	switch section {
	case shell.SectionDashboard:
		return r.Dashboard
	case shell.SectionBinManagement:
		return r.Bins
	case shell.SectionTruckManagement:
		return r.Trucks
	case shell.SectionRouteManagement:
		return r.Routes
	case shell.SectionUserManagement:
		return r.Users
	case shell.SectionSettings:
		return r.Settings
	}
	return nil
}

// Rows returns the table of a section tab.
func (r *Registry) Rows(section shell.Section, tab shell.TabID) Table {
	s := r.For(section)
	if s == nil {
		return Table{}
	}
	t, _, _ := s.Table(tab)
	return t
}

// Stops returns the map sequence for map tabs and nil elsewhere.
func (r *Registry) Stops(section shell.Section, tab shell.TabID) []geo.Stop {
	switch {
	case section == shell.SectionBinManagement && tab == shell.TabBinMap:
		return r.Bins.MapStops()
	case section == shell.SectionRouteManagement && tab == shell.TabRouteMap:
		return r.Routes.MapStops()
	}
	return nil
}
