package storage

import "time"

// Position is a scraped research position with its LLM-extracted fields.
type Position struct {
	ID            string
	URL           string
	Title         string
	University    string
	Department    string
	Country       string
	Deadline      string
	ContactPerson string
	ContactEmail  string
	Summary       string
	Keywords      []string
	FetchedAt     time.Time
}

// Applicant holds the parsed resume record, keyed by the extracted email.
// Record carries the full structured resume JSON as returned by the parser.
type Applicant struct {
	Email     string
	FullName  string
	Phone     string
	Location  string
	Record    map[string]any
	UpdatedAt time.Time
}

// Application is a sent (or drafted-and-confirmed) application email with
// its follow-up schedule.
type Application struct {
	ID             int64
	PositionID     string
	ApplicantEmail string
	Subject        string
	BodyMarkdown   string
	SentAt         time.Time
	FollowUpDue    time.Time
	FollowedUp     bool
}
