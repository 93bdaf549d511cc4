package shell

import (
	"strings"
	"testing"

	"smartwaste-dashboard/internal/models"
)

func TestTitles(t *testing.T) {
	tests := []struct {
		section Section
		modal   Modal
		want    string
	}{
		{SectionUserManagement, Add{Subject: "Collector"}, "Add New Collector"},
		{SectionUserManagement, Delete{Subject: "Collector"}, "Delete Collector"},
		{SectionUserManagement, Edit{Subject: "Bin User"}, "Edit Bin User"},
		{SectionUserManagement, Add{}, "Add New User"},
		{SectionBinManagement, Add{Subject: "Collector"}, "Add New Bin"},
		{SectionTruckManagement, Track{}, "Track Truck"},
		{SectionRouteManagement, Assign{}, "Assign Route"},
		{SectionDashboard, Complete{}, "Complete Item"},
		{SectionBinManagement, AddMaintenance{}, "New Maintenance Request"},
		{SectionBinManagement, EditMaintenance{}, "Edit Maintenance Request"},
		{SectionBinManagement, Delete{Subject: SubjectMaintenance}, "Delete Maintenance Request"},
		{SectionDashboard, Delete{Subject: SubjectMaintenance}, "Delete Maintenance Request"},
		{SectionSettings, EditProfile{}, "Edit Profile"},
	}
	for _, tt := range tests {
		if got := Title(tt.section, tt.modal); got != tt.want {
			t.Errorf("Title(%s, %T) = %q, want %q", tt.section, tt.modal, got, tt.want)
		}
	}
	if Title(SectionDashboard, nil) != "" {
		t.Error("closed modal should have no title")
	}
}

func TestResolve(t *testing.T) {
	bin := models.Bin{BinID: "B-1"}
	tests := []struct {
		section Section
		modal   Modal
		want    Form
	}{
		{SectionUserManagement, Add{Subject: "Collector"}, FormUserCreate},
		{SectionUserManagement, Edit{Target: models.User{}}, FormUserEdit},
		{SectionTruckManagement, Add{}, FormTruck},
		{SectionTruckManagement, Edit{}, FormTruck},
		{SectionTruckManagement, Assign{}, FormTruckAssign},
		{SectionTruckManagement, Track{}, FormTrackTruck},
		{SectionBinManagement, Add{}, FormBin},
		{SectionBinManagement, Edit{Target: bin}, FormBin},
		{SectionRouteManagement, Add{}, FormRoute},
		{SectionRouteManagement, Edit{}, FormRoute},
		{SectionRouteManagement, Assign{}, FormRouteAssign},
		{SectionBinManagement, AddMaintenance{}, FormMaintenance},
		{SectionDashboard, EditMaintenance{}, FormMaintenance},
		{SectionSettings, EditProfile{}, FormProfile},
		{SectionDashboard, Delete{}, FormDeleteConfirm},
		{SectionRouteManagement, Delete{}, FormDeleteConfirm},
		{SectionDashboard, Add{}, FormFallback},
		{SectionBinManagement, Track{}, FormFallback},
		{SectionRouteManagement, Complete{}, FormFallback},
		{SectionSettings, Edit{}, FormFallback},
	}
	for _, tt := range tests {
		if got := Resolve(tt.section, tt.modal); got != tt.want {
			t.Errorf("Resolve(%s, %T) = %s, want %s", tt.section, tt.modal, got, tt.want)
		}
	}
}

func TestResolveIgnoresPreviousModal(t *testing.T) {
	s := New()
	s.ChangeSection(SectionTruckManagement)
	s.RequestAction(Track{Truck: models.Truck{ID: "t1"}})
	s.RequestAction(Add{})
	if s.Form() != FormTruck {
		t.Errorf("form = %s", s.Form())
	}
}

func TestFooter(t *testing.T) {
	if f := Footer(SectionTruckManagement, Track{}, false); len(f) != 1 || f[0].Label != "Close" {
		t.Errorf("track footer = %+v", f)
	}
	if f := Footer(SectionBinManagement, Add{}, false); f != nil {
		t.Errorf("typed form footer = %+v", f)
	}
	f := Footer(SectionDashboard, Add{}, false)
	if len(f) != 2 || f[0].Label != "Cancel" || f[1].Label != "Save" {
		t.Errorf("fallback footer = %+v", f)
	}
	f = Footer(SectionBinManagement, Delete{}, false)
	if len(f) != 2 || f[1].Label != "Delete" || f[1].Disabled {
		t.Errorf("delete footer = %+v", f)
	}
}

func TestDeleteBody(t *testing.T) {
	lines := DeleteBody(SectionUserManagement, Delete{
		Subject: "Bin User",
		Command: &DeleteCommand{Label: "jdoe"},
	})
	if len(lines) != 3 ||
		lines[0] != "Are you sure you want to delete this bin user?" ||
		lines[1] != "Item: jdoe" ||
		lines[2] != "This action cannot be undone." {
		t.Errorf("body = %q", lines)
	}

	lines = DeleteBody(SectionBinManagement, Delete{Subject: SubjectMaintenance})
	want := []string{"Are you sure you want to delete this maintenance request?", "This action cannot be undone."}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("maintenance body = %q", lines)
	}
}

func TestSectionTable(t *testing.T) {
	if len(Sections()) != 6 {
		t.Fatalf("sections = %v", Sections())
	}
	if SectionBinManagement.FirstTab() != TabAllBins {
		t.Error("bin management should open on all bins")
	}
	if SectionDashboard.AllowsAdd() || !SectionRouteManagement.AllowsAdd() {
		t.Error("AllowsAdd mismatch")
	}
	if Section("nope").AllowsAdd() || Section("nope").FirstTab() != "" {
		t.Error("unknown section should offer nothing")
	}
}
