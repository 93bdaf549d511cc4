package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

const maintenanceColumns = `m.id, m.bin_id, m.requester_id, COALESCE(NULLIF(u.full_name, ''), u.username, '') AS requester_name,
	m.request_type, m.description, m.priority, m.status, m.created_at, m.resolved_at, m.assigned_to, m.notes`

func ListMaintenance(db *sqlx.DB) ([]models.MaintenanceRequest, error) {
	out := []models.MaintenanceRequest{}
	err := db.Select(&out, "SELECT "+maintenanceColumns+`
		FROM maintenance_requests m
		LEFT JOIN users u ON u.id = m.requester_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	return out, nil
}

func CreateMaintenance(db *sqlx.DB, requesterID string, body models.MaintenanceRequestBody) (models.MaintenanceRequest, error) {
	m := models.MaintenanceRequest{
		ID:          uuid.New().String(),
		BinID:       body.BinID,
		RequesterID: requesterID,
		RequestType: body.RequestType,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      models.MaintenancePending,
		CreatedAt:   Now(),
		Notes:       body.Notes,
	}
	_, err := db.NamedExec(`
		INSERT INTO maintenance_requests (id, bin_id, requester_id, request_type, description, priority, status, created_at, notes)
		VALUES (:id, :bin_id, :requester_id, :request_type, :description, :priority, :status, :created_at, :notes)
	`, m)
	if err != nil {
		return m, fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return m, nil
}

func UpdateMaintenance(db *sqlx.DB, id string, body models.MaintenanceRequestBody) error {
	res, err := db.Exec(`
		UPDATE maintenance_requests
		SET bin_id = $1, request_type = $2, description = $3, priority = $4, notes = $5
		WHERE id = $6
	`, body.BinID, body.RequestType, body.Description, body.Priority, body.Notes, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// UpdateMaintenanceStatus sets the status and stamps resolved_at when the
// request is closed.
func UpdateMaintenanceStatus(db *sqlx.DB, id, status string) error {
	resolved := ""
	if status == models.MaintenanceCompleted || status == models.MaintenanceCancelled {
		resolved = Now()
	}
	res, err := db.Exec("UPDATE maintenance_requests SET status = $1, resolved_at = $2 WHERE id = $3", status, resolved, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func DeleteMaintenance(db *sqlx.DB, id string) error {
	res, err := db.Exec("DELETE FROM maintenance_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
