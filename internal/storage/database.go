package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT,
			university TEXT,
			department TEXT,
			country TEXT,
			deadline TEXT,
			contact_person TEXT,
			contact_email TEXT,
			summary TEXT NOT NULL,
			keywords TEXT NOT NULL DEFAULT '[]',
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS applicants (
			email TEXT PRIMARY KEY,
			full_name TEXT,
			phone TEXT,
			location TEXT,
			record TEXT NOT NULL DEFAULT '{}',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position_id TEXT NOT NULL,
			applicant_email TEXT NOT NULL,
			subject TEXT NOT NULL,
			body_markdown TEXT NOT NULL,
			sent_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			follow_up_due DATETIME NOT NULL,
			followed_up INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (position_id) REFERENCES positions(id),
			FOREIGN KEY (applicant_email) REFERENCES applicants(email)
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// parseSQLiteTime parses the DATETIME formats SQLite emits. A zero time is
// returned for values in neither format.
func parseSQLiteTime(raw string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
