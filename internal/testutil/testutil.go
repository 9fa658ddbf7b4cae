package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Schema matches migrations/; timestamps are stored as Unix seconds
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		display_name VARCHAR(255),
		password_hash VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		subscription_tier VARCHAR(50) NOT NULL DEFAULT 'Explorer',
		stripe_customer_id VARCHAR(255),
		subscription_end INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id VARCHAR(36) PRIMARY KEY,
		user_id INTEGER NOT NULL,
		title VARCHAR(200) NOT NULL,
		body TEXT NOT NULL,
		mood VARCHAR(50),
		analysis TEXT,
		analyzed_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id VARCHAR(36) PRIMARY KEY,
		user_id INTEGER NOT NULL,
		kind VARCHAR(20) NOT NULL,
		topic VARCHAR(200) NOT NULL,
		notes TEXT,
		starts_at INTEGER NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS posts (
		id VARCHAR(36) PRIMARY KEY,
		user_id INTEGER NOT NULL,
		author_name VARCHAR(80) NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`

	if _, err = db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
