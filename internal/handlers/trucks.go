package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

func validateTruck(req *models.TruckRequest) string {
	req.RegistrationNumber = strings.TrimSpace(req.RegistrationNumber)
	if req.RegistrationNumber == "" {
		return "Registration number is required"
	}
	if req.Capacity <= 0 {
		return "Capacity must be a positive number"
	}
	return ""
}

func ListTrucks(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trucks, err := database.ListTrucks(db, r.URL.Query().Get("status"))
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch trucks")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", trucks)
	}
}

func AddTruck(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TruckRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if msg := validateTruck(&req); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		truck := models.Truck{
			ID:                 newID(),
			RegistrationNumber: req.RegistrationNumber,
			CapacityKg:         req.Capacity,
			Status:             models.TruckStatusAvailable,
		}
		if err := database.InsertTruck(db, truck); err != nil {
			if isUniqueViolation(err) {
				utils.RespondError(w, http.StatusConflict, "A truck with this registration number already exists")
				return
			}
			log.Printf("❌ Failed to add truck: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to add truck")
			return
		}
		log.Printf("🚛 Truck added: %s", truck.RegistrationNumber)
		utils.RespondSuccess(w, http.StatusCreated, "Truck added", truck)
	}
}

func UpdateTruck(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TruckRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if msg := validateTruck(&req); msg != "" {
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		id := chi.URLParam(r, "id")
		err := database.UpdateTruck(db, id, req)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "Truck not found")
		case isUniqueViolation(err):
			utils.RespondError(w, http.StatusConflict, "A truck with this registration number already exists")
		case err != nil:
			log.Printf("❌ Failed to update truck %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update truck")
		default:
			utils.RespondSuccess(w, http.StatusOK, "Truck updated", nil)
		}
	}
}

func DeleteTruck(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := database.DeleteTruck(db, id)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Truck not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to delete truck %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete truck")
			return
		}
		log.Printf("🗑️ Truck deleted: %s", id)
		utils.RespondSuccess(w, http.StatusOK, "Truck deleted", nil)
	}
}

func AssignCollector(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AssignCollectorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.TruckID == "" || req.CollectorID == "" {
			utils.RespondError(w, http.StatusBadRequest, "truckId and collectorId are required")
			return
		}
		err := database.AssignCollector(db, req.TruckID, req.CollectorID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "Collector not found")
		case errors.Is(err, database.ErrCollectorBusy):
			utils.RespondError(w, http.StatusConflict, "Collector is already assigned to a truck")
		case isForeignKeyViolation(err):
			utils.RespondError(w, http.StatusNotFound, "Truck not found")
		case err != nil:
			log.Printf("❌ Failed to assign collector %s to %s: %v", req.CollectorID, req.TruckID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to assign collector")
		default:
			log.Printf("✅ Collector %s assigned to truck %s", req.CollectorID, req.TruckID)
			utils.RespondSuccess(w, http.StatusOK, "Collector assigned", nil)
		}
	}
}

func AvailableCollectors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectors, err := database.AvailableCollectors(db)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch collectors")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", collectors)
	}
}

func TruckAssignments(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := database.TruckAssignments(db)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch truck assignments")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", pairs)
	}
}
