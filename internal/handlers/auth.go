package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

func Authenticate(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AuthenticateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Username)

		user, err := database.GetUserByUsername(db, req.Username)
		if errors.Is(err, database.ErrNotFound) {
			log.Printf("❌ User not found: %s", req.Username)
			utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to authenticate")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Username)
			utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		token, err := middleware.IssueToken(user, time.Now())
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Username, user.Role)
		utils.RespondSuccess(w, http.StatusOK, "Authenticated", models.AuthenticationData{
			Token:    token,
			Username: user.Username,
			Role:     user.Role,
		})
	}
}

// Register is the public bin-owner sign-up.
func Register(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		createUser(w, db, models.User{
			Role:         models.RoleBinOwner,
			Username:     req.Username,
			FullName:     strings.TrimSpace(req.Name),
			Address:      strings.TrimSpace(req.Address),
			MobileNumber: strings.TrimSpace(req.MobileNumber),
		}, req.Password)
	}
}

func createUser(w http.ResponseWriter, db *sqlx.DB, user models.User, password string) {
	taken, err := database.UsernameTaken(db, user.Username)
	if err != nil {
		log.Printf("❌ Database error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if taken {
		utils.RespondError(w, http.StatusConflict, "Username is already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.ID = uuid.New().String()
	user.PasswordHash = string(hash)
	user.CreatedAt = database.Now()

	if err := database.InsertUser(db, user); err != nil {
		if isUniqueViolation(err) {
			utils.RespondError(w, http.StatusConflict, "Username is already taken")
			return
		}
		log.Printf("❌ Database error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	log.Printf("✅ User created: %s (%s)", user.Username, user.Role)
	utils.RespondSuccess(w, http.StatusCreated, "User created successfully", user)
}
