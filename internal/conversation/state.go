package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AminWork/IntelligentApply/internal/match"
	"github.com/AminWork/IntelligentApply/internal/resume"
)

// Stage is the high-level position of a session in the application flow.
type Stage string

const (
	// StageDispatch routes the next message to intake, fallback, or the
	// follow-up check.
	StageDispatch Stage = "dispatcher"
	// StageFallback answers general questions about the service.
	StageFallback Stage = "fallback"
	// StageIntake collects the resume and preferences, then searches.
	StageIntake Stage = "intake"
	// StageConfirm waits for a yes or no before sending applications.
	StageConfirm Stage = "confirm"
	// StageCheckReplies looks for applications due a follow-up.
	StageCheckReplies Stage = "check_replies"
)

// Session is the per-conversation state. It is mutated only by the engine,
// which holds the session's mutex for the whole turn, so concurrent requests
// carrying the same session ID are serialized.
type Session struct {
	mu sync.Mutex

	ID          string
	Stage       Stage
	Resume      *resume.Record
	Preferences resume.Preferences
	Matches     []match.Match
	EmailsSent  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func newSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Stage:     StageDispatch,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
