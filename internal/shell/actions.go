package shell

import (
	"context"

	"smartwaste-dashboard/internal/models"
)

// Kind is the wire name of an action.
type Kind string

const (
	KindAdd             Kind = "add"
	KindEdit            Kind = "edit"
	KindDelete          Kind = "delete"
	KindAssign          Kind = "assign"
	KindTrack           Kind = "track"
	KindComplete        Kind = "complete"
	KindAddMaintenance  Kind = "add-maintenance"
	KindEditMaintenance Kind = "edit-maintenance"
	KindEditProfile     Kind = "edit-profile"

	KindRefresh             Kind = "refresh"
	KindExport              Kind = "export"
	KindDismissNotification Kind = "dismiss-notification"
	KindClearNotifications  Kind = "clear-notifications"
)

// Action is anything a screen may ask the shell to do. The set of
// implementations is closed to this package.
type Action interface {
	Kind() Kind
	action()
}

// Modal is an Action that occupies the single modal slot.
type Modal interface {
	Action
	subject() string
	modal()
}

// DeleteCommand is the caller-supplied deletion. Confirm performs the
// remote call and returns its error unchanged.
type DeleteCommand struct {
	TargetID string
	Label    string
	Confirm  func(ctx context.Context) error
}

type Add struct {
	Subject string
}

type Edit struct {
	Subject string
	Target  models.Entity
}

type Delete struct {
	Subject string
	Command *DeleteCommand
}

// Assign serves both truck/collector pairing (Truck, Collectors) and route
// assignment (Route, Pairings, Routes).
type Assign struct {
	Subject    string
	Truck      *models.Truck
	Collectors []models.CollectorProfile
	Route      *models.Route
	Pairings   []models.TruckAssignment
	Routes     []models.Route
}

type Track struct {
	Subject string
	Truck   models.Truck
}

type Complete struct {
	Subject string
	Target  models.Entity
}

type AddMaintenance struct {
	Bins []models.Bin
}

type EditMaintenance struct {
	Request models.MaintenanceRequest
	Bins    []models.Bin
}

type EditProfile struct {
	User models.User
}

type Refresh struct{}

type Export struct{}

type DismissNotification struct {
	ID string
}

type ClearNotifications struct{}

func (Add) Kind() Kind                 { return KindAdd }
func (Edit) Kind() Kind                { return KindEdit }
func (Delete) Kind() Kind              { return KindDelete }
func (Assign) Kind() Kind              { return KindAssign }
func (Track) Kind() Kind               { return KindTrack }
func (Complete) Kind() Kind            { return KindComplete }
func (AddMaintenance) Kind() Kind      { return KindAddMaintenance }
func (EditMaintenance) Kind() Kind     { return KindEditMaintenance }
func (EditProfile) Kind() Kind         { return KindEditProfile }
func (Refresh) Kind() Kind             { return KindRefresh }
func (Export) Kind() Kind              { return KindExport }
func (DismissNotification) Kind() Kind { return KindDismissNotification }
func (ClearNotifications) Kind() Kind  { return KindClearNotifications }

func (Add) action()                 {}
func (Edit) action()                {}
func (Delete) action()              {}
func (Assign) action()              {}
func (Track) action()               {}
func (Complete) action()            {}
func (AddMaintenance) action()      {}
func (EditMaintenance) action()     {}
func (EditProfile) action()         {}
func (Refresh) action()             {}
func (Export) action()              {}
func (DismissNotification) action() {}
func (ClearNotifications) action()  {}

func (Add) modal()             {}
func (Edit) modal()            {}
func (Delete) modal()          {}
func (Assign) modal()          {}
func (Track) modal()           {}
func (Complete) modal()        {}
func (AddMaintenance) modal()  {}
func (EditMaintenance) modal() {}
func (EditProfile) modal()     {}

func (a Add) subject() string           { return a.Subject }
func (e Edit) subject() string          { return e.Subject }
func (d Delete) subject() string        { return d.Subject }
func (a Assign) subject() string        { return a.Subject }
func (t Track) subject() string         { return t.Subject }
func (c Complete) subject() string      { return c.Subject }
func (AddMaintenance) subject() string  { return "" }
func (EditMaintenance) subject() string { return "" }
func (EditProfile) subject() string     { return "" }

// Payload is the loosely typed form of an action, used by Dispatch.
type Payload struct {
	Type           string
	Target         models.Entity
	Delete         *DeleteCommand
	Truck          *models.Truck
	Collectors     []models.CollectorProfile
	Route          *models.Route
	Pairings       []models.TruckAssignment
	Routes         []models.Route
	Bins           []models.Bin
	Request        *models.MaintenanceRequest
	User           *models.User
	NotificationID string
}

// errMissingPayload marks a recognized kind whose required field is absent.
type errMissingPayload struct {
	kind  Kind
	field string
}

func (e errMissingPayload) Error() string {
	return string(e.kind) + " requires " + e.field
}

// parseAction converts a kind string and payload into an Action. ok is
// false for unknown kinds.
func parseAction(kind string, p Payload) (Action, bool, error) {
	switch Kind(kind) {
	case KindAdd:
		return Add{Subject: p.Type}, true, nil
	case KindEdit:
		if p.Target == nil {
			return nil, true, errMissingPayload{KindEdit, "a target"}
		}
		return Edit{Subject: p.Type, Target: p.Target}, true, nil
	case KindDelete:
		return Delete{Subject: p.Type, Command: p.Delete}, true, nil
	case KindAssign:
		return Assign{
			Subject:    p.Type,
			Truck:      p.Truck,
			Collectors: p.Collectors,
			Route:      p.Route,
			Pairings:   p.Pairings,
			Routes:     p.Routes,
		}, true, nil
	case KindTrack:
		if p.Truck == nil {
			return nil, true, errMissingPayload{KindTrack, "a truck"}
		}
		return Track{Subject: p.Type, Truck: *p.Truck}, true, nil
	case KindComplete:
		return Complete{Subject: p.Type, Target: p.Target}, true, nil
	case KindAddMaintenance:
		return AddMaintenance{Bins: p.Bins}, true, nil
	case KindEditMaintenance:
		if p.Request == nil {
			return nil, true, errMissingPayload{KindEditMaintenance, "a request"}
		}
		return EditMaintenance{Request: *p.Request, Bins: p.Bins}, true, nil
	case KindEditProfile:
		if p.User == nil {
			return nil, true, errMissingPayload{KindEditProfile, "a user"}
		}
		return EditProfile{User: *p.User}, true, nil
	case KindRefresh:
		return Refresh{}, true, nil
	case KindExport:
		return Export{}, true, nil
	case KindDismissNotification:
		return DismissNotification{ID: p.NotificationID}, true, nil
	case KindClearNotifications:
		return ClearNotifications{}, true, nil
	}
	return nil, false, nil
}
