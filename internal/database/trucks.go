package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

// ErrCollectorBusy is returned when pairing a collector that already drives
// another truck.
var ErrCollectorBusy = errors.New("collector is already assigned to a truck")

const truckColumns = `id, registration_number, capacity_kg, last_maintenance, status, latitude, longitude`

func ListTrucks(db *sqlx.DB, status string) ([]models.Truck, error) {
	trucks := []models.Truck{}
	query := "SELECT " + truckColumns + " FROM trucks"
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY registration_number ASC"
	if err := db.Select(&trucks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	return trucks, nil
}

func InsertTruck(db *sqlx.DB, t models.Truck) error {
	_, err := db.NamedExec(`
		INSERT INTO trucks (id, registration_number, capacity_kg, status)
		VALUES (:id, :registration_number, :capacity_kg, :status)
	`, t)
	return err
}

func UpdateTruck(db *sqlx.DB, id string, req models.TruckRequest) error {
	res, err := db.Exec("UPDATE trucks SET registration_number = $1, capacity_kg = $2 WHERE id = $3",
		req.RegistrationNumber, req.Capacity, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func DeleteTruck(db *sqlx.DB, id string) error {
	res, err := db.Exec("DELETE FROM trucks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// AssignCollector pairs a collector with a truck, replacing the truck's
// previous collector.
func AssignCollector(db *sqlx.DB, truckID, collectorID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var role string
	err = tx.Get(&role, "SELECT role FROM users WHERE id = $1", collectorID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && role != string(models.RoleCollector)) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var busy bool
	err = tx.Get(&busy, "SELECT EXISTS(SELECT 1 FROM truck_assignments WHERE collector_id = $1 AND truck_id <> $2)",
		collectorID, truckID)
	if err != nil {
		return err
	}
	if busy {
		return ErrCollectorBusy
	}

	_, err = tx.Exec(`
		INSERT INTO truck_assignments (truck_id, collector_id, assigned_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (truck_id) DO UPDATE SET collector_id = EXCLUDED.collector_id, assigned_date = EXCLUDED.assigned_date
	`, truckID, collectorID, Now())
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE trucks SET status = $1 WHERE id = $2", models.TruckStatusInService, truckID); err != nil {
		return err
	}
	return tx.Commit()
}

// AvailableCollectors lists collectors without a truck.
func AvailableCollectors(db *sqlx.DB) ([]models.CollectorProfile, error) {
	out := []models.CollectorProfile{}
	err := db.Select(&out, `
		SELECT u.id, COALESCE(NULLIF(u.full_name, ''), u.username) AS name
		FROM users u
		LEFT JOIN truck_assignments ta ON ta.collector_id = u.id
		WHERE u.role = $1 AND ta.truck_id IS NULL
		ORDER BY name ASC
	`, models.RoleCollector)
	if err != nil {
		return nil, fmt.Errorf("failed to list available collectors: %w", err)
	}
	return out, nil
}

type assignmentRow struct {
	models.Truck
	CollectorID   string `db:"collector_id"`
	CollectorName string `db:"collector_name"`
	AssignedDate  string `db:"assigned_date"`
}

// TruckAssignments lists the current truck/collector pairings.
func TruckAssignments(db *sqlx.DB) ([]models.TruckAssignment, error) {
	var rows []assignmentRow
	err := db.Select(&rows, `
		SELECT t.id, t.registration_number, t.capacity_kg, t.last_maintenance, t.status, t.latitude, t.longitude,
		       u.id AS collector_id, COALESCE(NULLIF(u.full_name, ''), u.username) AS collector_name,
		       ta.assigned_date
		FROM truck_assignments ta
		JOIN trucks t ON t.id = ta.truck_id
		JOIN users u ON u.id = ta.collector_id
		ORDER BY t.registration_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list truck assignments: %w", err)
	}
	out := make([]models.TruckAssignment, len(rows))
	for i, r := range rows {
		out[i] = models.TruckAssignment{
			Truck:        r.Truck,
			Collector:    models.CollectorProfile{ID: r.CollectorID, Name: r.CollectorName},
			AssignedDate: r.AssignedDate,
		}
	}
	return out, nil
}
