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

func ListUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := database.ListUsers(db)
		if err != nil {
			log.Printf("❌ %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", users)
	}
}

func CreateCollector(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CollectorCreateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Username and password are required")
			return
		}
		createUser(w, db, models.User{
			Role:     models.RoleCollector,
			Username: req.Username,
			FullName: strings.TrimSpace(req.Name),
		}, req.Password)
	}
}

func DeleteCollector(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := database.DeleteCollector(db, id)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Collector not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to delete collector %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete collector")
			return
		}
		log.Printf("🗑️ Collector deleted: %s", id)
		utils.RespondSuccess(w, http.StatusOK, "Collector deleted", nil)
	}
}

// UpdateUser renames another user.
func UpdateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ProfileUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		id := chi.URLParam(r, "id")
		err := database.UpdateUserName(db, id, name)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to update user %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "User updated", nil)
	}
}

func GetProfile(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		user, err := database.GetUser(db, claims.UserID)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to load profile %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "", user)
	}
}

func UpdateProfile(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req models.ProfileUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		if err := database.UpdateUserName(db, claims.UserID, name); err != nil {
			log.Printf("❌ Failed to update profile %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		user, err := database.GetUser(db, claims.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, "Profile updated", user)
	}
}

// RegisterFCMToken stores the caller's device token for push delivery.
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req models.FCMTokenRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Token) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if err := database.SetFCMToken(db, claims.UserID, req.Token); err != nil {
			log.Printf("❌ Failed to save FCM token for %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to save token")
			return
		}
		log.Printf("📱 FCM token registered for %s", claims.UserID)
		utils.RespondSuccess(w, http.StatusOK, "Token registered", nil)
	}
}
