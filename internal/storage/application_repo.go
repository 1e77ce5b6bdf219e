package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_application_store.go -package=mocks github.com/AminWork/IntelligentApply/internal/storage ApplicationStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ApplicationStore defines the interface for application storage operations.
type ApplicationStore interface {
	// Insert records a sent application and returns its ID.
	Insert(ctx context.Context, app *Application) (int64, error)
	// ListDueFollowUps returns applications whose follow-up is due at or
	// before now and has not been sent yet.
	ListDueFollowUps(ctx context.Context, now time.Time) ([]*Application, error)
	// MarkFollowedUp flags an application's follow-up as sent.
	MarkFollowedUp(ctx context.Context, id int64) error
	// ListByApplicant returns all applications for an applicant, newest first.
	ListByApplicant(ctx context.Context, email string) ([]*Application, error)
}

// ApplicationRepo provides methods for application operations.
// It implements the ApplicationStore interface.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// Insert records a sent application and returns its ID.
func (r *ApplicationRepo) Insert(ctx context.Context, app *Application) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (position_id, applicant_email, subject, body_markdown, follow_up_due)
		 VALUES (?, ?, ?, ?, ?)`,
		app.PositionID, app.ApplicantEmail, app.Subject, app.BodyMarkdown,
		app.FollowUpDue.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert application: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read application id: %w", err)
	}
	return id, nil
}

// ListDueFollowUps returns applications whose follow-up is due at or before
// now and has not been sent yet.
func (r *ApplicationRepo) ListDueFollowUps(ctx context.Context, now time.Time) ([]*Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, position_id, applicant_email, subject, body_markdown, sent_at, follow_up_due, followed_up
		 FROM applications
		 WHERE followed_up = 0 AND follow_up_due <= ?
		 ORDER BY follow_up_due ASC`,
		now.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due follow-ups: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanApplications(rows)
}

// MarkFollowedUp flags an application's follow-up as sent.
func (r *ApplicationRepo) MarkFollowedUp(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET followed_up = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark follow-up: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByApplicant returns all applications for an applicant, newest first.
func (r *ApplicationRepo) ListByApplicant(ctx context.Context, email string) ([]*Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, position_id, applicant_email, subject, body_markdown, sent_at, follow_up_due, followed_up
		 FROM applications
		 WHERE applicant_email = ?
		 ORDER BY sent_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanApplications(rows)
}

func scanApplications(rows *sql.Rows) ([]*Application, error) {
	var apps []*Application
	for rows.Next() {
		var app Application
		var sentAt, followUpDue string
		var followedUp int

		err := rows.Scan(&app.ID, &app.PositionID, &app.ApplicantEmail, &app.Subject,
			&app.BodyMarkdown, &sentAt, &followUpDue, &followedUp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}

		app.SentAt = parseSQLiteTime(sentAt)
		app.FollowUpDue = parseSQLiteTime(followUpDue)
		app.FollowedUp = followedUp != 0
		apps = append(apps, &app)
	}
	return apps, rows.Err()
}
