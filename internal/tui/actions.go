package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"smartwaste-dashboard/internal/shell"
)

// rowAction maps an action key onto the current screen. Keys a tab does
// not offer are ignored.
func (m *Model) rowAction(msg tea.KeyMsg) tea.Cmd {
	section, tab := m.shell.Section(), m.shell.Tab()

	switch {
	case key.Matches(msg, m.keys.Add):
		m.add(section, tab)
		return nil
	case key.Matches(msg, m.keys.Maintenance):
		if section == shell.SectionBinManagement {
			m.reg.Bins.NewMaintenance()
		}
		return nil
	}

	if section == shell.SectionSettings {
		if key.Matches(msg, m.keys.Edit) && !m.reg.Settings.EditProfile() {
			m.shell.SetFlash("Profile is still loading")
		}
		return nil
	}

	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	switch section {
	case shell.SectionBinManagement:
		return m.binAction(msg, tab, id)
	case shell.SectionTruckManagement:
		m.truckAction(msg, id)
	case shell.SectionRouteManagement:
		if tab == shell.TabRoutes {
			m.routeAction(msg, id)
		}
	case shell.SectionUserManagement:
		m.userAction(msg, tab, id)
	}
	return nil
}

func (m *Model) add(section shell.Section, tab shell.TabID) {
	switch {
	case section == shell.SectionUserManagement:
		m.reg.Users.Add(tab)
	case section == shell.SectionBinManagement && tab == shell.TabMaintenance:
		m.reg.Bins.NewMaintenance()
	case section.AllowsAdd():
		m.shell.RequestAction(shell.Add{})
	}
}

func (m *Model) binAction(msg tea.KeyMsg, tab shell.TabID, id string) tea.Cmd {
	bins := m.reg.Bins
	if tab == shell.TabMaintenance {
		req, ok := bins.MaintenanceRequest(id)
		if !ok {
			return nil
		}
		switch {
		case key.Matches(msg, m.keys.Edit):
			bins.EditMaintenance(req)
		case key.Matches(msg, m.keys.Delete):
			bins.DeleteMaintenance(req)
		}
		return nil
	}

	bin, ok := bins.Bin(id)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		bins.Edit(bin)
	case key.Matches(msg, m.keys.Delete):
		bins.Delete(bin)
	case key.Matches(msg, m.keys.SelfAssign):
		task := bins.SelfAssign(bin)
		if task == nil {
			m.shell.SetFlash("Only bin owners can claim available bins")
			return nil
		}
		return m.run(task)
	}
	return nil
}

func (m *Model) truckAction(msg tea.KeyMsg, id string) {
	trucks := m.reg.Trucks
	truck, ok := trucks.Truck(id)
	if !ok {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		trucks.Edit(truck)
	case key.Matches(msg, m.keys.Delete):
		trucks.Delete(truck)
	case key.Matches(msg, m.keys.Assign):
		trucks.Assign(truck)
	case key.Matches(msg, m.keys.Track):
		trucks.Track(truck)
	}
}

func (m *Model) routeAction(msg tea.KeyMsg, id string) {
	routes := m.reg.Routes
	route, ok := routes.Route(id)
	if !ok {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		routes.Edit(route)
	case key.Matches(msg, m.keys.Delete):
		routes.Delete(route)
	case key.Matches(msg, m.keys.Assign):
		routes.Assign(route)
	case key.Matches(msg, m.keys.ShowOnMap):
		routes.ShowOnMap(route)
		m.shell.ChangeTab(shell.TabRouteMap)
	}
}

func (m *Model) userAction(msg tea.KeyMsg, tab shell.TabID, id string) {
	users := m.reg.Users
	user, ok := users.User(id)
	if !ok {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		users.Edit(tab, user)
	case key.Matches(msg, m.keys.Delete):
		if !users.Delete(tab, user) {
			m.shell.SetFlash("Only collectors can be deleted")
		}
	}
}
