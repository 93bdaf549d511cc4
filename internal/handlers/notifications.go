package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/websocket"
	"smartwaste-dashboard/pkg/utils"
)

func newID() string { return uuid.New().String() }

// ListNotifications returns the notifications for the caller's role.
func ListNotifications(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		notes, err := database.ListNotifications(db, claims.Role)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", notes)
	}
}

// notify stores n and pushes it to connected clients of its recipient role.
// Failures are logged; a missed notification never fails the request.
func notify(db *sqlx.DB, hub Broadcaster, n models.Notification) {
	if err := database.InsertNotification(db, n); err != nil {
		log.Printf("⚠️ %v", err)
		return
	}
	if hub != nil {
		hub.BroadcastToRole(models.Role(n.RecipientType), websocket.Event{
			Type: websocket.EventNotification,
			Data: n,
		})
	}
}
