package models

const (
	MaintenancePending    = "PENDING"
	MaintenanceInProgress = "IN_PROGRESS"
	MaintenanceCompleted  = "COMPLETED"
	MaintenanceCancelled  = "CANCELLED"

	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

var (
	MaintenanceRequestTypes = []string{"Repair", "Sensor Malfunction", "Physical Damage", "Lid Issue", "Other"}
	MaintenancePriorities   = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	MaintenanceStatuses     = []string{MaintenancePending, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled}
)

// MaintenanceTimeLayout is the createdAt/resolvedAt format on the wire.
const MaintenanceTimeLayout = "2006-01-02 15:04:05"

type MaintenanceRequest struct {
	ID            string `json:"id" db:"id"`
	BinID         string `json:"binId" db:"bin_id"`
	RequesterID   string `json:"requesterId" db:"requester_id"`
	RequesterName string `json:"requesterName" db:"requester_name"`
	RequestType   string `json:"requestType" db:"request_type"`
	Description   string `json:"description" db:"description"`
	Priority      string `json:"priority" db:"priority"`
	Status        string `json:"status" db:"status"`
	CreatedAt     string `json:"createdAt" db:"created_at"`
	ResolvedAt    string `json:"resolvedAt,omitempty" db:"resolved_at"`
	AssignedTo    string `json:"assignedTo,omitempty" db:"assigned_to"`
	Notes         string `json:"notes,omitempty" db:"notes"`
}

func (m MaintenanceRequest) EntityID() string { return m.ID }

func (m MaintenanceRequest) DisplayName() string {
	return m.RequestType + " (" + m.BinID + ")"
}

// MaintenanceRequestBody is the request body for creating or editing a
// maintenance request. Status changes go through a separate call.
type MaintenanceRequestBody struct {
	BinID       string `json:"binId"`
	RequestType string `json:"requestType"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Notes       string `json:"notes,omitempty"`
}
