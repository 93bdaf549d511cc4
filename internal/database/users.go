package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/models"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

const userColumns = `id, role, username, full_name, password_hash, address, mobile_number, fcm_token, created_at`

func InsertUser(db sqlx.Ext, u models.User) error {
	_, err := sqlx.NamedExec(db, `
		INSERT INTO users (id, role, username, full_name, password_hash, address, mobile_number, created_at)
		VALUES (:id, :role, :username, :full_name, :password_hash, :address, :mobile_number, :created_at)
	`, u)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func UsernameTaken(db *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
	return exists, err
}

func GetUserByUsername(db *sqlx.DB, username string) (models.User, error) {
	var u models.User
	err := db.Get(&u, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func GetUser(db *sqlx.DB, id string) (models.User, error) {
	var u models.User
	err := db.Get(&u, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func ListUsers(db *sqlx.DB) ([]models.User, error) {
	users := []models.User{}
	if err := db.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func UpdateUserName(db *sqlx.DB, id, name string) error {
	res, err := db.Exec("UPDATE users SET full_name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func SetFCMToken(db *sqlx.DB, id, token string) error {
	res, err := db.Exec("UPDATE users SET fcm_token = $1 WHERE id = $2", token, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteCollector removes a user only when it is a collector.
func DeleteCollector(db *sqlx.DB, id string) error {
	res, err := db.Exec("DELETE FROM users WHERE id = $1 AND role = $2", id, models.RoleCollector)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// AdminIDs lists the users that receive ROLE_ADMIN notifications.
func AdminIDs(db *sqlx.DB) ([]string, error) {
	var ids []string
	err := db.Select(&ids, "SELECT id FROM users WHERE role = $1", models.RoleAdmin)
	return ids, err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword replaces the hash of an existing account.
func ResetPassword(db *sqlx.DB, username, hash string) error {
	res, err := db.Exec("UPDATE users SET password_hash = $1 WHERE username = $2", hash, username)
	if err != nil {
		return err
	}
	return expectRow(res)
}
