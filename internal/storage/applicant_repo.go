package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_applicant_store.go -package=mocks github.com/AminWork/IntelligentApply/internal/storage ApplicantStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// ApplicantStore defines the interface for applicant storage operations.
// Applicants are keyed by the email extracted from their resume.
type ApplicantStore interface {
	// Upsert inserts a new applicant or replaces the stored record.
	Upsert(ctx context.Context, a *Applicant) error
	// GetByEmail gets an applicant by email. Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*Applicant, error)
}

// ApplicantRepo provides methods for applicant operations.
// It implements the ApplicantStore interface.
type ApplicantRepo struct {
	db *sql.DB
}

// NewApplicantRepo creates a new ApplicantRepo.
func NewApplicantRepo(db *sql.DB) *ApplicantRepo {
	return &ApplicantRepo{db: db}
}

// Upsert inserts a new applicant or replaces the stored record.
func (r *ApplicantRepo) Upsert(ctx context.Context, a *Applicant) error {
	if a.Email == "" {
		return fmt.Errorf("applicant email is required")
	}

	record, err := json.Marshal(a.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal applicant record: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO applicants (email, full_name, phone, location, record)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			full_name = excluded.full_name,
			phone = excluded.phone,
			location = excluded.location,
			record = excluded.record,
			updated_at = CURRENT_TIMESTAMP`,
		a.Email, a.FullName, a.Phone, a.Location, string(record),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert applicant: %w", err)
	}
	return nil
}

// GetByEmail gets an applicant by email. Returns ErrNotFound if absent.
func (r *ApplicantRepo) GetByEmail(ctx context.Context, email string) (*Applicant, error) {
	var a Applicant
	var record string
	var updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT email, full_name, phone, location, record, updated_at FROM applicants WHERE email = ?`,
		email,
	).Scan(&a.Email, &a.FullName, &a.Phone, &a.Location, &record, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query applicant: %w", err)
	}

	if err := json.Unmarshal([]byte(record), &a.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal applicant record: %w", err)
	}
	a.UpdatedAt = parseSQLiteTime(updatedAt)
	return &a, nil
}
