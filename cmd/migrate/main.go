package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
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

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("Seeding users failed: %v", err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Fatalf("Seeding bins failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	var result struct {
		TotalBins         int `db:"total_bins"`
		AvailableBins     int `db:"available_bins"`
		AssignedBins      int `db:"assigned_bins"`
		BinsWithoutCoords int `db:"bins_without_coords"`
		FullBins          int `db:"full_bins"`
	}
	err = db.Get(&result, `
		SELECT
			COUNT(*) AS total_bins,
			COUNT(CASE WHEN status = $1 THEN 1 END) AS available_bins,
			COUNT(CASE WHEN status = $2 THEN 1 END) AS assigned_bins,
			COUNT(CASE WHEN latitude IS NULL OR longitude IS NULL THEN 1 END) AS bins_without_coords,
			COUNT(CASE WHEN GREATEST(COALESCE(plastic_level, 0), COALESCE(paper_level, 0), COALESCE(glass_level, 0)) >= $3 THEN 1 END) AS full_bins
		FROM bins
	`, models.BinStatusAvailable, models.BinStatusAssigned, models.FullLevelThreshold)
	if err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total bins:              %d\n", result.TotalBins)
	fmt.Printf("Available bins:          %d\n", result.AvailableBins)
	fmt.Printf("Assigned bins:           %d\n", result.AssignedBins)
	fmt.Printf("Bins at or above %d%%:    %d\n", models.FullLevelThreshold, result.FullBins)
	fmt.Printf("Bins without coords:     %d (won't show on map)\n", result.BinsWithoutCoords)
	fmt.Println("============================================================")
}
