package main

import (
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	username := pflag.StringP("username", "u", "", "admin username (email)")
	password := pflag.StringP("password", "p", os.Getenv("SMARTWASTE_ADMIN_PASSWORD"), "admin password")
	name := pflag.StringP("name", "n", "", "full name")
	pflag.Parse()

	*username = strings.TrimSpace(*username)
	if *username == "" || *password == "" {
		log.Fatal("--username and --password (or SMARTWASTE_ADMIN_PASSWORD) are required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	taken, err := database.UsernameTaken(db, *username)
	if err != nil {
		log.Fatalf("❌ Error checking for user %s: %v", *username, err)
	}
	if taken {
		if err := database.ResetPassword(db, *username, string(hash)); err != nil {
			log.Fatalf("❌ Error resetting password for %s: %v", *username, err)
		}
		log.Printf("🔑 Password reset for existing user: %s", *username)
		return
	}

	admin := models.User{
		ID:           uuid.New().String(),
		Role:         models.RoleAdmin,
		Username:     *username,
		FullName:     strings.TrimSpace(*name),
		PasswordHash: string(hash),
		CreatedAt:    database.Now(),
	}
	if err := database.InsertUser(db, admin); err != nil {
		log.Fatalf("❌ Error creating user %s: %v", *username, err)
	}
	log.Printf("✅ Created admin: %s", admin.DisplayName())
}
