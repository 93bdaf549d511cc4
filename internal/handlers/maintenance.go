package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

// normalizeMaintenance fills the defaults and returns a validation message,
// or "" when the body is acceptable.
func normalizeMaintenance(body *models.MaintenanceRequestBody) string {
	body.BinID = strings.TrimSpace(body.BinID)
	body.Description = strings.TrimSpace(body.Description)
	if body.BinID == "" {
		return "Bin ID is required"
	}
	if body.Description == "" {
		return "Description is required"
	}
	if body.RequestType == "" {
		body.RequestType = models.MaintenanceRequestTypes[0]
	}
	if body.Priority == "" {
		body.Priority = models.PriorityMedium
	}
	if !slices.Contains(models.MaintenancePriorities, body.Priority) {
		return "Invalid priority"
	}
	return ""
}

func ListMaintenance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqs, err := database.ListMaintenance(db)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch maintenance requests")
			return
		}
		utils.RespondPage(w, reqs, len(reqs))
	}
}

// CreateMaintenance files a request on behalf of the caller and alerts the
// admins.
func CreateMaintenance(db *sqlx.DB, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		var body models.MaintenanceRequestBody
		if !decodeBody(w, r, &body) {
			return
		}
		if msg := normalizeMaintenance(&body); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}

		m, err := database.CreateMaintenance(db, claims.UserID, body)
		if isForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "Bin "+body.BinID+" does not exist")
			return
		}
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create maintenance request")
			return
		}
		log.Printf("🔧 Maintenance request %s for bin %s (%s)", m.ID, m.BinID, m.Priority)

		notify(db, hub, models.Notification{
			ID:                   newID(),
			Type:                 models.NotificationMaintenance,
			Title:                "New maintenance request",
			Message:              fmt.Sprintf("%s reported for bin %s", m.RequestType, m.BinID),
			Priority:             m.Priority,
			RecipientType:        string(models.RoleAdmin),
			CreatedAt:            m.CreatedAt,
			BinID:                m.BinID,
			MaintenanceRequestID: m.ID,
		})
		utils.RespondSuccess(w, http.StatusCreated, "Maintenance request created", m)
	}
}

func UpdateMaintenance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.MaintenanceRequestBody
		if !decodeBody(w, r, &body) {
			return
		}
		if msg := normalizeMaintenance(&body); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		id := chi.URLParam(r, "id")
		err := database.UpdateMaintenance(db, id, body)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Maintenance request not found")
			return
		}
		if isForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "Bin "+body.BinID+" does not exist")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to update maintenance request %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update maintenance request")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "Maintenance request updated", nil)
	}
}

// UpdateMaintenanceStatus takes the new status from the status query
// parameter.
func UpdateMaintenanceStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if !slices.Contains(models.MaintenanceStatuses, status) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		id := chi.URLParam(r, "id")
		err := database.UpdateMaintenanceStatus(db, id, status)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Maintenance request not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to set status of %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}
		log.Printf("🔧 Maintenance request %s -> %s", id, status)
		utils.RespondSuccess(w, http.StatusOK, "Status updated", nil)
	}
}

func DeleteMaintenance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := database.DeleteMaintenance(db, id)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Maintenance request not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to delete maintenance request %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete maintenance request")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "Maintenance request deleted", nil)
	}
}
