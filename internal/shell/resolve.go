package shell

import (
	"fmt"
	"strings"
)

// Form names the view mounted in the modal slot.
type Form int

const (
	// FormFallback is the placeholder for kind/section pairs with no
	// configured form.
	FormFallback Form = iota
	FormDeleteConfirm
	FormUserCreate
	FormUserEdit
	FormTruck
	FormTruckAssign
	FormTrackTruck
	FormBin
	FormRoute
	FormRouteAssign
	FormMaintenance
	FormProfile
)

var formNames = map[Form]string{
	FormFallback:      "fallback",
	FormDeleteConfirm: "delete-confirm",
	FormUserCreate:    "user-create",
	FormUserEdit:      "user-edit",
	FormTruck:         "truck",
	FormTruckAssign:   "truck-assign",
	FormTrackTruck:    "track-truck",
	FormBin:           "bin",
	FormRoute:         "route",
	FormRouteAssign:   "route-assign",
	FormMaintenance:   "maintenance",
	FormProfile:       "profile",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// Resolve picks the form for a modal opened in section. It depends on
// nothing but its arguments.
func Resolve(section Section, m Modal) Form {
	switch m.(type) {
	case Delete:
		return FormDeleteConfirm
	case AddMaintenance, EditMaintenance:
		return FormMaintenance
	case EditProfile:
		return FormProfile
	}

	switch section {
	case SectionUserManagement:
		switch m.(type) {
		case Add:
			return FormUserCreate
		case Edit:
			return FormUserEdit
		}
	case SectionTruckManagement:
		switch m.(type) {
		case Add, Edit:
			return FormTruck
		case Assign:
			return FormTruckAssign
		case Track:
			return FormTrackTruck
		}
	case SectionBinManagement:
		switch m.(type) {
		case Add, Edit:
			return FormBin
		}
	case SectionRouteManagement:
		switch m.(type) {
		case Add, Edit:
			return FormRoute
		case Assign:
			return FormRouteAssign
		}
	}
	return FormFallback
}

// SubjectMaintenance names maintenance requests in whichever section they
// are listed.
const SubjectMaintenance = "Maintenance Request"

// EntityLabel is the human noun for what a modal in section acts on.
func EntityLabel(section Section, subject string) string {
	if subject == SubjectMaintenance {
		return subject
	}
	switch section {
	case SectionBinManagement:
		return "Bin"
	case SectionTruckManagement:
		return "Truck"
	case SectionRouteManagement:
		return "Route"
	case SectionUserManagement:
		if subject != "" {
			return subject
		}
		return "User"
	}
	return "Item"
}

// Title is the modal heading.
func Title(section Section, m Modal) string {
	if m == nil {
		return ""
	}
	entity := EntityLabel(section, m.subject())
	switch m.(type) {
	case Add:
		return "Add New " + entity
	case Edit:
		return "Edit " + entity
	case Delete:
		return "Delete " + entity
	case Assign:
		return "Assign " + entity
	case Track:
		return "Track " + entity
	case Complete:
		return "Complete " + entity
	case AddMaintenance:
		return "New Maintenance Request"
	case EditMaintenance:
		return "Edit Maintenance Request"
	case EditProfile:
		return "Edit Profile"
	}
	return "Confirm Action"
}

// ButtonRole tells the view what a footer button does.
type ButtonRole int

const (
	ButtonCancel ButtonRole = iota
	ButtonConfirm
	ButtonClose
	ButtonSave
)

type Button struct {
	Label    string
	Role     ButtonRole
	Disabled bool
}

// Footer lists the shell-owned buttons for the modal. Typed entity forms
// render their own and get none.
func Footer(section Section, m Modal, deleting bool) []Button {
	switch Resolve(section, m) {
	case FormDeleteConfirm:
		confirm := "Delete"
		if deleting {
			confirm = "Deleting..."
		}
		return []Button{
			{Label: "Cancel", Role: ButtonCancel, Disabled: deleting},
			{Label: confirm, Role: ButtonConfirm, Disabled: deleting},
		}
	case FormTrackTruck:
		return []Button{{Label: "Close", Role: ButtonClose}}
	case FormFallback:
		return []Button{
			{Label: "Cancel", Role: ButtonCancel},
			{Label: "Save", Role: ButtonSave},
		}
	}
	return nil
}

// DeleteBody is the confirmation text for a delete modal.
func DeleteBody(section Section, d Delete) []string {
	entity := strings.ToLower(EntityLabel(section, d.Subject))
	lines := []string{fmt.Sprintf("Are you sure you want to delete this %s?", entity)}
	if d.Command != nil && d.Command.Label != "" {
		lines = append(lines, "Item: "+d.Command.Label)
	}
	return append(lines, "This action cannot be undone.")
}
