package storage

import (
	"context"
	"errors"
	"testing"
)

func TestApplicantRepo_UpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := &Applicant{
		Email:    "chidi@example.com",
		FullName: "Chidi Anagonye",
		Phone:    "+1 555 0100",
		Location: "Phoenix, AZ",
		Record: map[string]any{
			"research_interests": []any{"AI ethics", "deontology"},
		},
	}
	if err := db.Applicants.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := db.Applicants.GetByEmail(ctx, "chidi@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.FullName != "Chidi Anagonye" {
		t.Errorf("FullName = %q", got.FullName)
	}
	interests, ok := got.Record["research_interests"].([]any)
	if !ok || len(interests) != 2 {
		t.Errorf("Record not round-tripped: %v", got.Record)
	}
}

func TestApplicantRepo_UpsertReplaces(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := &Applicant{Email: "x@example.com", FullName: "Old Name", Record: map[string]any{}}
	if err := db.Applicants.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	a.FullName = "New Name"
	if err := db.Applicants.Upsert(ctx, a); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := db.Applicants.GetByEmail(ctx, "x@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.FullName != "New Name" {
		t.Errorf("FullName = %q", got.FullName)
	}
}

func TestApplicantRepo_RequiresEmail(t *testing.T) {
	db := openTestDB(t)

	err := db.Applicants.Upsert(context.Background(), &Applicant{FullName: "No Email"})
	if err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestApplicantRepo_GetByEmailNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Applicants.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
