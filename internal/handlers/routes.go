package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/websocket"
	"smartwaste-dashboard/pkg/utils"
)

// normalizeRoute trims the name and bin ids and drops empty ids.
func normalizeRoute(req *models.RouteRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	ids := req.BinIDs[:0]
	for _, id := range req.BinIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	req.BinIDs = ids
	if req.Name == "" {
		return "Route name is required"
	}
	if len(req.BinIDs) == 0 {
		return "At least one bin is required"
	}
	return ""
}

func ListRoutes(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := database.ListRoutes(db)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch routes")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", routes)
	}
}

func CreateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RouteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if msg := normalizeRoute(&req); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		id, err := database.CreateRoute(db, req)
		if errors.Is(err, database.ErrUnknownBins) {
			utils.RespondError(w, http.StatusBadRequest, "One or more bin IDs do not exist")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to create route: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create route")
			return
		}
		log.Printf("🗺️ Route created: %s (%d stops)", req.Name, len(req.BinIDs))
		utils.RespondSuccess(w, http.StatusCreated, "Route created", map[string]string{"id": id})
	}
}

func UpdateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RouteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if msg := normalizeRoute(&req); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		id := chi.URLParam(r, "id")
		err := database.UpdateRoute(db, id, req)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "Route not found")
		case errors.Is(err, database.ErrUnknownBins):
			utils.RespondError(w, http.StatusBadRequest, "One or more bin IDs do not exist")
		case err != nil:
			log.Printf("❌ Failed to update route %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update route")
		default:
			utils.RespondSuccess(w, http.StatusOK, "Route updated", nil)
		}
	}
}

func DeleteRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := database.DeleteRoute(db, id)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Route not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to delete route %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete route")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "Route deleted", nil)
	}
}

// AssignRoute binds a route to a collector, tells the collector over the
// WebSocket, and pushes to their device when a token is registered.
func AssignRoute(db *sqlx.DB, hub Broadcaster, pusher Pusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RouteAssignRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.RouteID == "" || req.CollectorID == "" {
			utils.RespondError(w, http.StatusBadRequest, "routeId and collectorId are required")
			return
		}

		stops, fcmToken, err := database.AssignRoute(db, req.RouteID, req.CollectorID)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Route or collector not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to assign route %s: %v", req.RouteID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to assign route")
			return
		}
		log.Printf("✅ Route %s assigned to %s (%d stops)", req.RouteID, req.CollectorID, stops)

		n := models.Notification{
			ID:            newID(),
			Type:          models.NotificationRouteAssigned,
			Title:         "New route assigned",
			Message:       fmt.Sprintf("You have %d bins to collect", stops),
			Priority:      models.PriorityMedium,
			RecipientType: string(models.RoleCollector),
			CreatedAt:     database.Now(),
			RouteID:       req.RouteID,
		}
		if err := database.InsertNotification(db, n); err != nil {
			log.Printf("⚠️ %v", err)
		}
		hub.BroadcastToUser(req.CollectorID, websocket.Event{Type: websocket.EventNotification, Data: n})

		if pusher != nil && fcmToken != "" {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := pusher.SendRouteAssignedNotification(ctx, fcmToken, req.RouteID, stops); err != nil {
					log.Printf("⚠️ Failed to push route assignment: %v", err)
				}
			}()
		}

		utils.RespondSuccess(w, http.StatusOK, "Route assigned", nil)
	}
}

// MarkCollected is called by collectors as they empty each stop.
func MarkCollected(db *sqlx.DB, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.MarkCollectedRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.RouteID == "" || req.BinID == "" {
			utils.RespondError(w, http.StatusBadRequest, "routeId and binId are required")
			return
		}
		completed, err := database.MarkCollected(db, req.RouteID, req.BinID)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Stop not found on route")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to mark %s collected on %s: %v", req.BinID, req.RouteID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to mark bin collected")
			return
		}

		hub.PublishBinStatus("", models.BinStatusUpdate{BinID: req.BinID, LastEmptiedAt: database.Now()})
		if completed {
			log.Printf("🏁 Route %s completed", req.RouteID)
			notify(db, hub, models.Notification{
				ID:            newID(),
				Type:          models.NotificationRouteCompleted,
				Title:         "Route completed",
				Message:       fmt.Sprintf("Route %s has been completed", req.RouteID),
				Priority:      models.PriorityLow,
				RecipientType: string(models.RoleAdmin),
				CreatedAt:     database.Now(),
				RouteID:       req.RouteID,
			})
		}
		utils.RespondSuccess(w, http.StatusOK, "Bin collected", map[string]bool{"routeCompleted": completed})
	}
}
