package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Baaaki/planogram-backoffice/internal/database"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDatabase holds an in-memory SQLite database behind a pool manager
type TestDatabase struct {
	Manager *database.Manager
	DSN     string
}

// TestRedis holds test Redis mock (miniredis)
type TestRedis struct {
	Server *miniredis.Miniredis
	URL    string
}

// Schema is the SQLite rendition of the production tables, with the same
// column names and cascades.
var Schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT,
		first_name TEXT,
		last_name TEXT,
		google_id TEXT,
		profile_picture TEXT,
		is_confirmed BOOLEAN NOT NULL DEFAULT 0,
		lang TEXT DEFAULT 'en',
		theme TEXT DEFAULT 'light',
		last_password_reset_at DATETIME,
		last_email_confirmation_at DATETIME,
		created_by_id TEXT,
		updated_by_id TEXT,
		role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('ADMIN','USER')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		image_src TEXT,
		created_by_id TEXT,
		updated_by_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE planograms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_src TEXT,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		created_by_id TEXT,
		updated_by_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE submissions (
		id TEXT PRIMARY KEY,
		uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		uploaded_by_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		planogram_id TEXT NOT NULL REFERENCES planograms(id) ON DELETE CASCADE,
		upload_ids JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE uploads (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		filesize TEXT NOT NULL,
		file_type TEXT NOT NULL,
		uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		uploaded_by_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		planogram_id TEXT NOT NULL REFERENCES planograms(id) ON DELETE CASCADE,
		submission_id TEXT REFERENCES submissions(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// SQLiteOpener opens the in-memory database named by dsn.
func SQLiteOpener(dsn string) database.Opener {
	return func() (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	}
}

// NewSQLiteDSN returns a DSN for a fresh, isolated in-memory database with
// foreign keys enforced.
func NewSQLiteDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}

// SetupEmptyDatabase creates an in-memory SQLite database with no tables.
func SetupEmptyDatabase(t *testing.T) *TestDatabase {
	dsn := NewSQLiteDSN()
	// One connection keeps the in-memory database alive and serializes access.
	manager := database.NewManager(SQLiteOpener(dsn), database.PoolConfig{ConnectionLimit: 1, MaxIdleConns: 1})
	if err := manager.Ping(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return &TestDatabase{Manager: manager, DSN: dsn}
}

// SetupTestDatabase creates an in-memory SQLite database with the full schema.
// No Docker required! Fast and isolated.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	td := SetupEmptyDatabase(t)
	for _, stmt := range Schema {
		if _, err := td.Manager.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	return td
}

// Teardown closes the pool, which drops the in-memory database.
func (td *TestDatabase) Teardown(t *testing.T) {
	if err := td.Manager.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis creates an in-memory Redis mock (miniredis)
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		URL:    fmt.Sprintf("redis://%s", server.Addr()),
	}
}

// Teardown cleans up the test Redis mock
func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}

// CleanDatabase deletes all records, children first (for test isolation)
func CleanDatabase(t *testing.T, manager *database.Manager) {
	tables := []string{"uploads", "submissions", "planograms", "stores", "users"}
	for _, table := range tables {
		if _, err := manager.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
