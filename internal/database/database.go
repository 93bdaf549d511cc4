package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"smartwaste-dashboard/internal/models"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// Now is the timestamp format stored in every *_at / *_date column.
func Now() string {
	return time.Now().Format(models.MaintenanceTimeLayout)
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK(role IN ('ROLE_ADMIN', 'ROLE_COLLECTOR', 'ROLE_BIN_OWNER')),
			address TEXT NOT NULL DEFAULT '',
			mobile_number TEXT NOT NULL DEFAULT '',
			fcm_token TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bins (
			bin_id TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK(status IN ('AVAILABLE', 'ASSIGNED')),
			owner_id TEXT REFERENCES users(id) ON DELETE SET NULL,
			assigned_date TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			plastic_level INT,
			paper_level INT,
			glass_level INT,
			last_emptied_at TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS trucks (
			id TEXT PRIMARY KEY,
			registration_number TEXT NOT NULL UNIQUE,
			capacity_kg BIGINT NOT NULL CHECK(capacity_kg > 0),
			last_maintenance TEXT,
			status TEXT NOT NULL DEFAULT 'AVAILABLE',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION
		)`,

		// One collector per truck and one truck per collector.
		`CREATE TABLE IF NOT EXISTS truck_assignments (
			truck_id TEXT PRIMARY KEY REFERENCES trucks(id) ON DELETE CASCADE,
			collector_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			assigned_date TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			assigned_to_id TEXT REFERENCES users(id) ON DELETE SET NULL,
			date_created TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'CREATED',
			route_start_time TEXT,
			route_end_time TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS route_stops (
			route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
			bin_id TEXT NOT NULL REFERENCES bins(bin_id) ON DELETE CASCADE,
			stop_order INT NOT NULL,
			collected BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (route_id, stop_order)
		)`,

		`CREATE TABLE IF NOT EXISTS maintenance_requests (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL REFERENCES bins(bin_id) ON DELETE CASCADE,
			requester_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			request_type TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'MEDIUM' CHECK(priority IN ('LOW', 'MEDIUM', 'HIGH', 'URGENT')),
			status TEXT NOT NULL DEFAULT 'PENDING' CHECK(status IN ('PENDING', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED')),
			created_at TEXT NOT NULL,
			resolved_at TEXT NOT NULL DEFAULT '',
			assigned_to TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			priority TEXT NOT NULL DEFAULT 'MEDIUM',
			recipient_type TEXT NOT NULL,
			created_at TEXT NOT NULL,
			bin_id TEXT NOT NULL DEFAULT '',
			maintenance_request_id TEXT NOT NULL DEFAULT '',
			route_id TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bins_owner ON bins(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_bin ON route_stops(bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
