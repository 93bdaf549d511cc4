package models

const (
	RouteStatusCreated    = "CREATED"
	RouteStatusAssigned   = "ASSIGNED"
	RouteStatusInProgress = "IN_PROGRESS"
	RouteStatusCompleted  = "COMPLETED"
)

type Route struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	AssignedToID   string      `json:"assignedToId,omitempty" db:"assigned_to_id"`
	DateCreated    string      `json:"dateCreated" db:"date_created"`
	Status         string      `json:"status" db:"status"`
	RouteStartTime *string     `json:"routeStartTime,omitempty" db:"route_start_time"`
	RouteEndTime   *string     `json:"routeEndTime,omitempty" db:"route_end_time"`
	Stops          []RouteStop `json:"stops" db:"-"`
}

func (r Route) EntityID() string    { return r.ID }
func (r Route) DisplayName() string { return r.Name }

// IsActive reports whether the route currently binds its collector.
func (r Route) IsActive() bool {
	return r.Status == RouteStatusAssigned || r.Status == RouteStatusInProgress
}

// BinIDs returns the stop bin IDs in collection order.
func (r Route) BinIDs() []string {
	ids := make([]string, len(r.Stops))
	for i, s := range r.Stops {
		ids[i] = s.BinID
	}
	return ids
}

type RouteStop struct {
	RouteID   string   `json:"-" db:"route_id"`
	BinID     string   `json:"binId" db:"bin_id"`
	StopOrder int      `json:"stopOrder" db:"stop_order"`
	Latitude  *float64 `json:"latitude" db:"latitude"`
	Longitude *float64 `json:"longitude" db:"longitude"`
	Collected bool     `json:"collected" db:"collected"`
}

// RouteRequest is the request body for creating or updating a route.
type RouteRequest struct {
	Name   string   `json:"name"`
	BinIDs []string `json:"binIds"`
}

// RouteAssignRequest is the request body for POST /api/routes/assign
type RouteAssignRequest struct {
	RouteID     string `json:"routeId"`
	CollectorID string `json:"collectorId"`
}

// MarkCollectedRequest is the request body for POST /api/routes/mark-collected
type MarkCollectedRequest struct {
	RouteID string `json:"routeId"`
	BinID   string `json:"binId"`
}
