// Package testutil provides a schema-backed SQLite database and seed helpers
// shared by store, service and handler tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evn/shiftpass_backend/db"
	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var dbCounter atomic.Int64

// NewDB opens a private in-memory database initialised from db.GetSchemaSQL.
// A single connection keeps the in-memory database alive and serialises
// transactions the same way the SQLite file backend does.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	testDB, err := db.Open(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(testDB, db.DriverSQLite); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// SeedUser inserts a worker with a fresh UUID.
func SeedUser(t *testing.T, database *sql.DB, name, email string) models.User {
	t.Helper()
	u := models.User{ID: uuid.NewString(), Name: name, Email: email}
	_, err := database.Exec(`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`, u.ID, u.Name, u.Email)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

// SeedLocation inserts an active location owned by ownerID.
func SeedLocation(t *testing.T, database *sql.DB, name, ownerID string) models.Location {
	t.Helper()
	loc := models.Location{Name: name, OwnerID: ownerID, Active: true}
	err := database.QueryRow(`INSERT INTO locations (name, owner_id, active) VALUES ($1, $2, TRUE) RETURNING id`,
		name, ownerID).Scan(&loc.ID)
	if err != nil {
		t.Fatalf("failed to seed location %s: %v", name, err)
	}
	return loc
}

// SeedShift inserts a shift without a pending offer.
func SeedShift(t *testing.T, database *sql.DB, userID string, locationID int64, start, end time.Time, value float64) models.Shift {
	t.Helper()
	s := models.Shift{StartTime: start, EndTime: end, Value: value, LocationID: locationID, UserID: userID}
	err := database.QueryRowContext(context.Background(), `
		INSERT INTO shifts (start_time, end_time, value, location_id, user_id, has_pending_offer, version)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0)
		RETURNING id`,
		s.StartTime, s.EndTime, s.Value, s.LocationID, s.UserID).Scan(&s.ID)
	if err != nil {
		t.Fatalf("failed to seed shift: %v", err)
	}
	return s
}

// Day returns the given clock time on a fixed UTC date.
func Day(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

// CountRows returns SELECT COUNT(*) for the given query.
func CountRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := database.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
