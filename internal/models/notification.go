package models

const (
	NotificationBinFull        = "BIN_FULL"
	NotificationMaintenance    = "MAINTENANCE_REQUEST"
	NotificationRouteAssigned  = "ROUTE_ASSIGNED"
	NotificationRouteCompleted = "ROUTE_COMPLETED"
	NotificationSystem         = "SYSTEM"
)

type Notification struct {
	ID                   string `json:"id" db:"id"`
	Type                 string `json:"type" db:"type"`
	Title                string `json:"title" db:"title"`
	Message              string `json:"message" db:"message"`
	IsRead               bool   `json:"isRead" db:"is_read"`
	Priority             string `json:"priority" db:"priority"`
	RecipientType        string `json:"recipientType" db:"recipient_type"`
	CreatedAt            string `json:"createdAt" db:"created_at"`
	BinID                string `json:"binId,omitempty" db:"bin_id"`
	MaintenanceRequestID string `json:"maintenanceRequestId,omitempty" db:"maintenance_request_id"`
	RouteID              string `json:"routeId,omitempty" db:"route_id"`
}

// APIResponse is the {success, message, data} envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Page wraps paged listings such as maintenance requests.
type Page struct {
	Content       interface{} `json:"content"`
	TotalElements int         `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Number        int         `json:"number"`
	Size          int         `json:"size"`
}
