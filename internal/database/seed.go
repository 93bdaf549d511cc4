package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"smartwaste-dashboard/internal/models"
)

// SeedBins loads a starter set of located bins into an empty table.
func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	bins := []map[string]interface{}{
		{"bin_id": "BIN-001", "latitude": 6.9271, "longitude": 79.8612, "plastic_level": 45, "paper_level": 30, "glass_level": 10},
		{"bin_id": "BIN-002", "latitude": 6.9319, "longitude": 79.8478, "plastic_level": 82, "paper_level": 64, "glass_level": 20},
		{"bin_id": "BIN-003", "latitude": 6.9147, "longitude": 79.8730, "plastic_level": 12, "paper_level": 8, "glass_level": 3},
		{"bin_id": "BIN-004", "latitude": 6.9022, "longitude": 79.8607, "plastic_level": 67, "paper_level": 91, "glass_level": 40},
		{"bin_id": "BIN-005", "latitude": 6.8935, "longitude": 79.8553, "plastic_level": 23, "paper_level": 35, "glass_level": 88},
		{"bin_id": "BIN-006", "latitude": 6.9388, "longitude": 79.8542, "plastic_level": 50, "paper_level": 50, "glass_level": 50},
		{"bin_id": "BIN-007", "latitude": 6.9105, "longitude": 79.8890, "plastic_level": 5, "paper_level": 2, "glass_level": 0},
		{"bin_id": "BIN-008", "latitude": 6.9213, "longitude": 79.8781, "plastic_level": 74, "paper_level": 28, "glass_level": 61},
	}

	log.Printf("🌱 Seeding %d bins...", len(bins))
	for _, bin := range bins {
		_, err := db.NamedExec(`
			INSERT INTO bins (bin_id, status, latitude, longitude, plastic_level, paper_level, glass_level)
			VALUES (:bin_id, 'AVAILABLE', :latitude, :longitude, :plastic_level, :paper_level, :glass_level)
		`, bin)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d bins", len(bins))
	return nil
}

// SeedUsers creates one account per role in an empty table.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")
	seeds := []struct {
		username, password, name string
		role                     models.Role
	}{
		{"admin@smartwaste.lk", "admin123", "Admin User", models.RoleAdmin},
		{"collector@smartwaste.lk", "collector123", "Kamal Perera", models.RoleCollector},
		{"owner@smartwaste.lk", "owner123", "Nimali Silva", models.RoleBinOwner},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			ID:           uuid.New().String(),
			Role:         s.role,
			Username:     s.username,
			FullName:     s.name,
			PasswordHash: string(hash),
			CreatedAt:    Now(),
		}
		if err := InsertUser(db, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", s.username, s.role)
	}

	log.Println("✓ Successfully seeded test users")
	log.Println("  📧 Admin:     admin@smartwaste.lk / admin123")
	log.Println("  📧 Collector: collector@smartwaste.lk / collector123")
	log.Println("  📧 Bin owner: owner@smartwaste.lk / owner123")
	return nil
}
