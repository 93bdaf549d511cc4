package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

var (
	// ErrBinOnActiveRoute blocks deleting a bin an assigned route still visits.
	ErrBinOnActiveRoute = errors.New("bin is on an active route")
	// ErrBinTaken is returned when claiming a bin that already has an owner.
	ErrBinTaken = errors.New("bin is not available")
)

const binColumns = `bin_id, status, owner_id, assigned_date, latitude, longitude,
	plastic_level, paper_level, glass_level, last_emptied_at`

func ListBins(db *sqlx.DB, status string) ([]models.Bin, error) {
	bins := []models.Bin{}
	query := "SELECT " + binColumns + " FROM bins"
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY bin_id ASC"
	if err := db.Select(&bins, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bins: %w", err)
	}
	return bins, nil
}

func ListOwnedBins(db *sqlx.DB, ownerID string) ([]models.Bin, error) {
	bins := []models.Bin{}
	err := db.Select(&bins, "SELECT "+binColumns+" FROM bins WHERE owner_id = $1 ORDER BY bin_id ASC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned bins: %w", err)
	}
	return bins, nil
}

func GetBin(db *sqlx.DB, binID string) (models.Bin, error) {
	var b models.Bin
	err := db.Get(&b, "SELECT "+binColumns+" FROM bins WHERE bin_id = $1", binID)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

func BinExists(db *sqlx.DB, binID string) (bool, error) {
	var exists bool
	err := db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM bins WHERE bin_id = $1)", binID)
	return exists, err
}

func InsertBin(db *sqlx.DB, binID string) error {
	_, err := db.Exec("INSERT INTO bins (bin_id, status) VALUES ($1, $2)", binID, models.BinStatusAvailable)
	return err
}

func UpdateBinLocation(db *sqlx.DB, binID string, lat, lng float64) error {
	res, err := db.Exec("UPDATE bins SET latitude = $1, longitude = $2 WHERE bin_id = $3", lat, lng, binID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteBin refuses bins that an assigned or in-progress route visits.
func DeleteBin(db *sqlx.DB, binID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var active bool
	err = tx.Get(&active, `
		SELECT EXISTS(
			SELECT 1 FROM route_stops rs
			JOIN routes r ON r.id = rs.route_id
			WHERE rs.bin_id = $1 AND r.status IN ($2, $3)
		)`, binID, models.RouteStatusAssigned, models.RouteStatusInProgress)
	if err != nil {
		return err
	}
	if active {
		return ErrBinOnActiveRoute
	}

	res, err := tx.Exec("DELETE FROM bins WHERE bin_id = $1", binID)
	if err != nil {
		return err
	}
	if err := expectRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// AssignBinOwner claims an AVAILABLE bin for ownerID.
func AssignBinOwner(db *sqlx.DB, binID, ownerID string) error {
	res, err := db.Exec(`
		UPDATE bins SET owner_id = $1, status = $2, assigned_date = $3
		WHERE bin_id = $4 AND status = $5
	`, ownerID, models.BinStatusAssigned, Now(), binID, models.BinStatusAvailable)
	if err != nil {
		return err
	}
	if err := expectRow(res); errors.Is(err, ErrNotFound) {
		if ok, _ := BinExists(db, binID); ok {
			return ErrBinTaken
		}
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return nil
}

// RecordBinStatus stores a sensor reading and returns the bin's owner, if
// any.
func RecordBinStatus(db *sqlx.DB, u models.BinStatusUpdate) (*string, error) {
	var owner *string
	var emptied *string
	if u.LastEmptiedAt != "" {
		emptied = &u.LastEmptiedAt
	}
	err := db.Get(&owner, `
		UPDATE bins
		SET plastic_level = $1, paper_level = $2, glass_level = $3,
		    last_emptied_at = COALESCE($4, last_emptied_at)
		WHERE bin_id = $5
		RETURNING owner_id
	`, u.PlasticLevel, u.PaperLevel, u.GlassLevel, emptied, u.BinID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return owner, err
}
