package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

const notificationColumns = `id, type, title, message, is_read, priority, recipient_type, created_at,
	bin_id, maintenance_request_id, route_id`

// ListNotifications returns the notifications addressed to role, newest
// first.
func ListNotifications(db *sqlx.DB, role models.Role) ([]models.Notification, error) {
	out := []models.Notification{}
	err := db.Select(&out, "SELECT "+notificationColumns+` FROM notifications
		WHERE recipient_type = $1
		ORDER BY created_at DESC
		LIMIT 100`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

func InsertNotification(db *sqlx.DB, n models.Notification) error {
	_, err := db.NamedExec(`
		INSERT INTO notifications (id, type, title, message, is_read, priority, recipient_type, created_at,
			bin_id, maintenance_request_id, route_id)
		VALUES (:id, :type, :title, :message, :is_read, :priority, :recipient_type, :created_at,
			:bin_id, :maintenance_request_id, :route_id)
	`, n)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
