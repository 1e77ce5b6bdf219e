package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

// seedApplication creates the position and applicant rows an application
// references and inserts one application with the given follow-up due time.
func seedApplication(t *testing.T, db *testDB, due time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	if err := db.Positions.Upsert(ctx, testPosition("pos-1")); err != nil {
		t.Fatalf("Upsert position error = %v", err)
	}
	applicant := &Applicant{Email: "a@example.com", FullName: "A", Record: map[string]any{}}
	if err := db.Applicants.Upsert(ctx, applicant); err != nil {
		t.Fatalf("Upsert applicant error = %v", err)
	}

	id, err := db.Applications.Insert(ctx, &Application{
		PositionID:     "pos-1",
		ApplicantEmail: "a@example.com",
		Subject:        "Application for PhD position",
		BodyMarkdown:   "Dear Prof. Keller, ...",
		FollowUpDue:    due,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return id
}

func TestApplicationRepo_InsertAndListByApplicant(t *testing.T) {
	db := openTestDB(t)

	id := seedApplication(t, db, time.Now().Add(7*24*time.Hour))
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	apps, err := db.Applications.ListByApplicant(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("ListByApplicant() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	if apps[0].Subject != "Application for PhD position" {
		t.Errorf("Subject = %q", apps[0].Subject)
	}
	if apps[0].FollowedUp {
		t.Error("new application must not be marked followed up")
	}
	if apps[0].SentAt.IsZero() {
		t.Error("SentAt not populated")
	}
}

func TestApplicationRepo_ListDueFollowUps(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	overdue := seedApplication(t, db, time.Now().Add(-24*time.Hour))

	// A second application that is not due yet.
	_, err := db.Applications.Insert(ctx, &Application{
		PositionID:     "pos-1",
		ApplicantEmail: "a@example.com",
		Subject:        "Another application",
		BodyMarkdown:   "...",
		FollowUpDue:    time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	due, err := db.Applications.ListDueFollowUps(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListDueFollowUps() error = %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due follow-up, got %d", len(due))
	}
	if due[0].ID != overdue {
		t.Errorf("due ID = %d, want %d", due[0].ID, overdue)
	}

	if err := db.Applications.MarkFollowedUp(ctx, overdue); err != nil {
		t.Fatalf("MarkFollowedUp() error = %v", err)
	}

	due, err = db.Applications.ListDueFollowUps(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListDueFollowUps() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no due follow-ups after marking, got %d", len(due))
	}
}

func TestApplicationRepo_MarkFollowedUpUnknown(t *testing.T) {
	db := openTestDB(t)

	err := db.Applications.MarkFollowedUp(context.Background(), 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
