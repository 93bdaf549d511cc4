package models

const (
	TruckStatusAvailable   = "AVAILABLE"
	TruckStatusInService   = "IN_SERVICE"
	TruckStatusMaintenance = "MAINTENANCE"
	TruckStatusInactive    = "INACTIVE"
)

type Truck struct {
	ID                 string   `json:"id" db:"id"`
	RegistrationNumber string   `json:"registrationNumber" db:"registration_number"`
	CapacityKg         int64    `json:"capacityKg" db:"capacity_kg"`
	LastMaintenance    *string  `json:"lastMaintenance,omitempty" db:"last_maintenance"`
	Status             string   `json:"status" db:"status"`
	Latitude           *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude          *float64 `json:"longitude,omitempty" db:"longitude"`
}

func (t Truck) EntityID() string    { return t.ID }
func (t Truck) DisplayName() string { return t.RegistrationNumber }

// TruckRequest is the request body for adding or updating a truck.
type TruckRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
	Capacity           int64  `json:"capacity"`
}

// AssignCollectorRequest is the request body for POST /api/admin/trucks/assign-collector
type AssignCollectorRequest struct {
	TruckID     string `json:"truckId"`
	CollectorID string `json:"collectorId"`
}

// CollectorProfile is the field-personnel record paired with a truck.
type CollectorProfile struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// TruckAssignment is the joined {truck, collector} pairing served by
// /api/collector/trucks.
type TruckAssignment struct {
	Truck        Truck            `json:"truck"`
	Collector    CollectorProfile `json:"collector"`
	AssignedDate string           `json:"assignedDate"`
}
