package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

// ErrUnknownBins is returned when a route names bins that do not exist.
var ErrUnknownBins = errors.New("unknown bin ids")

const routeColumns = `id, name, COALESCE(assigned_to_id, '') AS assigned_to_id, date_created, status,
	route_start_time, route_end_time`

// ListRoutes returns every route with its stops in collection order. Stop
// coordinates come from the bins.
func ListRoutes(db *sqlx.DB) ([]models.Route, error) {
	routes := []models.Route{}
	if err := db.Select(&routes, "SELECT "+routeColumns+" FROM routes ORDER BY date_created DESC"); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	var stops []models.RouteStop
	err := db.Select(&stops, `
		SELECT rs.route_id, rs.bin_id, rs.stop_order, rs.collected, b.latitude, b.longitude
		FROM route_stops rs
		JOIN bins b ON b.bin_id = rs.bin_id
		ORDER BY rs.route_id, rs.stop_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list route stops: %w", err)
	}

	byRoute := make(map[string][]models.RouteStop, len(routes))
	for _, s := range stops {
		byRoute[s.RouteID] = append(byRoute[s.RouteID], s)
	}
	for i := range routes {
		routes[i].Stops = byRoute[routes[i].ID]
		if routes[i].Stops == nil {
			routes[i].Stops = []models.RouteStop{}
		}
	}
	return routes, nil
}

func GetRoute(db *sqlx.DB, id string) (models.Route, error) {
	var r models.Route
	err := db.Get(&r, "SELECT "+routeColumns+" FROM routes WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

// CreateRoute inserts a route and its stops in one transaction.
func CreateRoute(db *sqlx.DB, req models.RouteRequest) (string, error) {
	tx, err := db.Beginx()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.Exec("INSERT INTO routes (id, name, date_created, status) VALUES ($1, $2, $3, $4)",
		id, req.Name, Now(), models.RouteStatusCreated)
	if err != nil {
		return "", fmt.Errorf("failed to create route: %w", err)
	}
	if err := insertStops(tx, id, req.BinIDs); err != nil {
		return "", err
	}
	return id, tx.Commit()
}

// UpdateRoute renames a route and replaces its stops.
func UpdateRoute(db *sqlx.DB, id string, req models.RouteRequest) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE routes SET name = $1 WHERE id = $2", req.Name, id)
	if err != nil {
		return err
	}
	if err := expectRow(res); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM route_stops WHERE route_id = $1", id); err != nil {
		return err
	}
	if err := insertStops(tx, id, req.BinIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertStops(tx *sqlx.Tx, routeID string, binIDs []string) error {
	var known int
	query, args, err := sqlx.In("SELECT COUNT(DISTINCT bin_id) FROM bins WHERE bin_id IN (?)", binIDs)
	if err != nil {
		return err
	}
	if err := tx.Get(&known, tx.Rebind(query), args...); err != nil {
		return err
	}
	if known != distinct(binIDs) {
		return ErrUnknownBins
	}

	for i, binID := range binIDs {
		_, err := tx.Exec("INSERT INTO route_stops (route_id, bin_id, stop_order) VALUES ($1, $2, $3)",
			routeID, binID, i+1)
		if err != nil {
			return fmt.Errorf("failed to insert stop %d: %w", i+1, err)
		}
	}
	return nil
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func DeleteRoute(db *sqlx.DB, id string) error {
	res, err := db.Exec("DELETE FROM routes WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// AssignRoute binds a route to a collector and returns the stop count and
// the collector's push token.
func AssignRoute(db *sqlx.DB, routeID, collectorID string) (int, string, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var fcmToken string
	err = tx.Get(&fcmToken, "SELECT fcm_token FROM users WHERE id = $1 AND role = $2", collectorID, models.RoleCollector)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}

	res, err := tx.Exec("UPDATE routes SET assigned_to_id = $1, status = $2 WHERE id = $3",
		collectorID, models.RouteStatusAssigned, routeID)
	if err != nil {
		return 0, "", err
	}
	if err := expectRow(res); err != nil {
		return 0, "", err
	}

	var stops int
	if err := tx.Get(&stops, "SELECT COUNT(*) FROM route_stops WHERE route_id = $1", routeID); err != nil {
		return 0, "", err
	}
	return stops, fcmToken, tx.Commit()
}

// MarkCollected flags one stop as collected, empties the bin, and completes
// the route once every stop is collected. It reports whether the route
// completed.
func MarkCollected(db *sqlx.DB, routeID, binID string) (bool, error) {
	tx, err := db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE route_stops SET collected = TRUE WHERE route_id = $1 AND bin_id = $2", routeID, binID)
	if err != nil {
		return false, err
	}
	if err := expectRow(res); err != nil {
		return false, err
	}

	now := Now()
	_, err = tx.Exec(`
		UPDATE bins SET plastic_level = 0, paper_level = 0, glass_level = 0, last_emptied_at = $1
		WHERE bin_id = $2
	`, now, binID)
	if err != nil {
		return false, err
	}
	_, err = tx.Exec(`
		UPDATE routes SET status = $1, route_start_time = COALESCE(route_start_time, $2)
		WHERE id = $3 AND status = $4
	`, models.RouteStatusInProgress, now, routeID, models.RouteStatusAssigned)
	if err != nil {
		return false, err
	}

	var remaining int
	if err := tx.Get(&remaining, "SELECT COUNT(*) FROM route_stops WHERE route_id = $1 AND NOT collected", routeID); err != nil {
		return false, err
	}
	completed := remaining == 0
	if completed {
		_, err = tx.Exec("UPDATE routes SET status = $1, route_end_time = $2 WHERE id = $3",
			models.RouteStatusCompleted, now, routeID)
		if err != nil {
			return false, err
		}
	}
	return completed, tx.Commit()
}
