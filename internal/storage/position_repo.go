package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_position_store.go -package=mocks github.com/AminWork/IntelligentApply/internal/storage PositionStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// PositionStore defines the interface for position storage operations.
type PositionStore interface {
	// Upsert inserts a new position or replaces an existing one by ID.
	Upsert(ctx context.Context, pos *Position) error
	// GetByID gets a position by its ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*Position, error)
	// GetByIDs resolves several IDs at once, skipping unknown ones.
	GetByIDs(ctx context.Context, ids []string) ([]*Position, error)
	// ListAll returns all stored positions, newest first.
	ListAll(ctx context.Context) ([]*Position, error)
}

// PositionRepo provides methods for position operations.
// It implements the PositionStore interface.
type PositionRepo struct {
	db *sql.DB
}

// NewPositionRepo creates a new PositionRepo.
func NewPositionRepo(db *sql.DB) *PositionRepo {
	return &PositionRepo{db: db}
}

// Upsert inserts a new position or replaces an existing one by ID.
func (r *PositionRepo) Upsert(ctx context.Context, pos *Position) error {
	keywords, err := json.Marshal(pos.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO positions (id, url, title, university, department, country, deadline, contact_person, contact_email, summary, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			university = excluded.university,
			department = excluded.department,
			country = excluded.country,
			deadline = excluded.deadline,
			contact_person = excluded.contact_person,
			contact_email = excluded.contact_email,
			summary = excluded.summary,
			keywords = excluded.keywords,
			fetched_at = CURRENT_TIMESTAMP`,
		pos.ID, pos.URL, pos.Title, pos.University, pos.Department, pos.Country,
		pos.Deadline, pos.ContactPerson, pos.ContactEmail, pos.Summary, string(keywords),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

// GetByID gets a position by its ID. Returns ErrNotFound if absent.
func (r *PositionRepo) GetByID(ctx context.Context, id string) (*Position, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, title, university, department, country, deadline, contact_person, contact_email, summary, keywords, fetched_at
		 FROM positions WHERE id = ?`, id)

	pos, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query position: %w", err)
	}
	return pos, nil
}

// GetByIDs resolves several IDs at once, skipping unknown ones. Order follows
// the input IDs.
func (r *PositionRepo) GetByIDs(ctx context.Context, ids []string) ([]*Position, error) {
	positions := make([]*Position, 0, len(ids))
	for _, id := range ids {
		pos, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// ListAll returns all stored positions, newest first.
func (r *PositionRepo) ListAll(ctx context.Context) ([]*Position, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, title, university, department, country, deadline, contact_person, contact_email, summary, keywords, fetched_at
		 FROM positions ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var positions []*Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanPosition.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (*Position, error) {
	var pos Position
	var keywords string
	var fetchedAt string

	err := row.Scan(&pos.ID, &pos.URL, &pos.Title, &pos.University, &pos.Department, &pos.Country,
		&pos.Deadline, &pos.ContactPerson, &pos.ContactEmail, &pos.Summary, &keywords, &fetchedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keywords), &pos.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	pos.FetchedAt = parseSQLiteTime(fetchedAt)
	return &pos, nil
}
