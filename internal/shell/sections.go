package shell

// Section is a top-level navigation destination.
type Section string

const (
	SectionDashboard       Section = "dashboard"
	SectionBinManagement   Section = "bin-management"
	SectionTruckManagement Section = "truck-management"
	SectionRouteManagement Section = "route-management"
	SectionUserManagement  Section = "user-management"
	SectionSettings        Section = "settings"
)

// TabID identifies a sub-view within a section.
type TabID string

const (
	TabOverview   TabID = "overview"
	TabStatistics TabID = "statistics"
	TabAlerts     TabID = "alerts"

	TabAllBins     TabID = "all-bins"
	TabActiveBins  TabID = "active-bins"
	TabMaintenance TabID = "maintenance"
	TabBinMap      TabID = "bin-map"

	TabFleet   TabID = "fleet"
	TabOnRoute TabID = "on-route"

	TabRoutes     TabID = "routes"
	TabAssignment TabID = "assignment"
	TabRouteMap   TabID = "route-map"

	TabCollectors TabID = "collectors"
	TabBinUsers   TabID = "bin-users"
	TabAdmins     TabID = "admins"

	TabProfile TabID = "profile"
)

type Tab struct {
	ID    TabID
	Label string
}

type sectionInfo struct {
	id    Section
	label string
	tabs  []Tab
}

var sectionTable = []sectionInfo{
	{SectionDashboard, "Dashboard", []Tab{
		{TabOverview, "Overview"},
		{TabStatistics, "Statistics"},
		{TabAlerts, "Alerts"},
	}},
	{SectionBinManagement, "Bin Management", []Tab{
		{TabAllBins, "All Bins"},
		{TabActiveBins, "Active Bins"},
		{TabMaintenance, "Maintenance"},
		{TabBinMap, "Bin Map"},
	}},
	{SectionTruckManagement, "Truck Management", []Tab{
		{TabFleet, "Fleet"},
		{TabOnRoute, "On Route"},
	}},
	{SectionRouteManagement, "Route Management", []Tab{
		{TabRoutes, "Routes"},
		{TabAssignment, "Assignment"},
		{TabRouteMap, "Map"},
	}},
	{SectionUserManagement, "User Management", []Tab{
		{TabCollectors, "Collectors"},
		{TabBinUsers, "Bin Users"},
		{TabAdmins, "Admins"},
	}},
	{SectionSettings, "Settings", []Tab{
		{TabProfile, "Profile"},
	}},
}

// Sections lists every section in sidebar order.
func Sections() []Section {
	out := make([]Section, len(sectionTable))
	for i, s := range sectionTable {
		out[i] = s.id
	}
	return out
}

func lookup(s Section) (sectionInfo, bool) {
	for _, info := range sectionTable {
		if info.id == s {
			return info, true
		}
	}
	return sectionInfo{}, false
}

// Label is the sidebar name of the section.
func (s Section) Label() string {
	if info, ok := lookup(s); ok {
		return info.label
	}
	return string(s)
}

// Tabs returns the section's tabs in display order.
func (s Section) Tabs() []Tab {
	info, _ := lookup(s)
	return append([]Tab(nil), info.tabs...)
}

// FirstTab is where the section lands when it becomes active.
func (s Section) FirstTab() TabID {
	info, ok := lookup(s)
	if !ok || len(info.tabs) == 0 {
		return ""
	}
	return info.tabs[0].ID
}

// HasTab reports whether id belongs to the section.
func (s Section) HasTab(id TabID) bool {
	info, _ := lookup(s)
	for _, t := range info.tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

// AllowsAdd reports whether the header "add" affordance is offered.
func (s Section) AllowsAdd() bool {
	switch s {
	case SectionDashboard, SectionUserManagement, SectionSettings:
		return false
	}
	_, ok := lookup(s)
	return ok
}
