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

// ListBins accepts an optional ?status= filter.
func ListBins(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status != "" && status != models.BinStatusAvailable && status != models.BinStatusAssigned {
			utils.RespondError(w, http.StatusBadRequest, "Unknown bin status: "+status)
			return
		}
		bins, err := database.ListBins(db, status)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", bins)
	}
}

// FetchOwnedBins lists the caller's bins.
func FetchOwnedBins(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		bins, err := database.ListOwnedBins(db, claims.UserID)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", bins)
	}
}

func AddBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AddBinRequest
		if !decodeBody(w, r, &req) {
			return
		}
		binID := strings.TrimSpace(req.BinID)
		if binID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Bin ID cannot be empty")
			return
		}
		if err := database.InsertBin(db, binID); err != nil {
			if isUniqueViolation(err) {
				utils.RespondError(w, http.StatusConflict, "Bin "+binID+" already exists")
				return
			}
			log.Printf("❌ Failed to add bin %s: %v", binID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to add bin")
			return
		}
		log.Printf("🗑️ Bin added: %s", binID)
		utils.RespondSuccess(w, http.StatusCreated, "Bin added", models.Bin{BinID: binID, Status: models.BinStatusAvailable})
	}
}

// UpdateBinLocation moves a bin; coordinates are the only editable fields.
func UpdateBinLocation(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateBinLocationRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
			utils.RespondError(w, http.StatusBadRequest, "Latitude must be within ±90 and longitude within ±180")
			return
		}
		binID := chi.URLParam(r, "binId")
		err := database.UpdateBinLocation(db, binID, req.Latitude, req.Longitude)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to move bin %s: %v", binID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update bin")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "Bin updated", nil)
	}
}

func DeleteBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "binId")
		err := database.DeleteBin(db, binID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
		case errors.Is(err, database.ErrBinOnActiveRoute):
			utils.RespondError(w, http.StatusConflict, "Bin is on an active route")
		case err != nil:
			log.Printf("❌ Failed to delete bin %s: %v", binID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete bin")
		default:
			log.Printf("🗑️ Bin deleted: %s", binID)
			utils.RespondSuccess(w, http.StatusOK, "Bin deleted", nil)
		}
	}
}

// SelfAssignBin lets a bin owner claim an available bin.
func SelfAssignBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		binID := chi.URLParam(r, "binId")
		err := database.AssignBinOwner(db, binID, claims.UserID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
		case errors.Is(err, database.ErrBinTaken):
			utils.RespondError(w, http.StatusConflict, "Bin is not available")
		case err != nil:
			log.Printf("❌ Failed to assign bin %s: %v", binID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to assign bin")
		default:
			log.Printf("✅ Bin %s claimed by %s", binID, claims.UserID)
			utils.RespondSuccess(w, http.StatusOK, "Bin assigned", nil)
		}
	}
}
