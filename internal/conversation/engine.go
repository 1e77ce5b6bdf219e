package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AminWork/IntelligentApply/internal/llm"
	"github.com/AminWork/IntelligentApply/internal/mailer"
	"github.com/AminWork/IntelligentApply/internal/match"
	"github.com/AminWork/IntelligentApply/internal/resume"
	"github.com/AminWork/IntelligentApply/internal/storage"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks -source=engine.go

// LLM is the language-model surface the engine itself uses for routing and
// fallback answers.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ChatJSON(ctx context.Context, messages []llm.ChatMessage, out any) error
}

// ResumeParser turns raw resume text into a structured record.
type ResumeParser interface {
	Parse(ctx context.Context, resumeText, userPrompt string) (*resume.Record, error)
}

// PreferenceExtractor elicits search preferences over conversation turns.
type PreferenceExtractor interface {
	Extract(ctx context.Context, userText string, current *resume.Preferences) (*resume.Extraction, error)
}

// Drafter writes application and follow-up emails.
type Drafter interface {
	DraftApplicationEmail(ctx context.Context, user mailer.UserFields, pos mailer.PositionFields, attachments []string) (mailer.Draft, error)
	DraftFollowUp(ctx context.Context, in mailer.FollowUpInput) (mailer.Draft, error)
}

// Message is one user turn. ResumeText carries uploaded resume content when
// the client attached a file.
type Message struct {
	Text       string `json:"text"`
	ResumeText string `json:"resume_text,omitempty"`
}

// PositionSummary is a matched position as presented to the user.
type PositionSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	University string  `json:"university"`
	Country    string  `json:"country"`
	URL        string  `json:"url"`
	Score      float32 `json:"score"`
}

// DraftedEmail is a generated email tied to its recorded application.
type DraftedEmail struct {
	ApplicationID int64        `json:"application_id"`
	PositionID    string       `json:"position_id"`
	PositionTitle string       `json:"position_title"`
	Recipient     string       `json:"recipient"`
	Draft         mailer.Draft `json:"draft"`
}

// Reply is the engine's answer to one user turn.
type Reply struct {
	SessionID string            `json:"session_id"`
	Stage     Stage             `json:"stage"`
	Message   string            `json:"message"`
	Positions []PositionSummary `json:"positions,omitempty"`
	Emails    []DraftedEmail    `json:"emails,omitempty"`
}

const routingPrompt = `You are a routing assistant for an academic apply system. Decide what the user wants:
- "intake" when they shared a resume or want to find and apply to positions
- "check_replies" when they ask about replies or follow-ups to sent applications
- "fallback" for greetings and general questions about the service
Respond in JSON as {"tool_name": "intake" | "check_replies" | "fallback"}.`

const fallbackPrompt = `You are an assistant that helps users apply to academic research positions.

ONLY answer questions related to:
- Academic job discovery
- Resume or CV parsing
- Research field matching
- Writing personalized application emails
- Following up with professors
- Preparing for academic interviews

If the user asks something out of scope, politely say:
"I'm here to help with academic job applications. Could you tell me about your research interests or share your resume?"

User message: %q`

const fallbackCanned = "I'm here to help with academic job applications. Could you tell me about your research interests or share your resume?"

type chosenTool struct {
	ToolName string `json:"tool_name"`
}

// Engine drives the application conversation: routing, resume intake,
// preference elicitation, position matching, email drafting, and follow-ups.
type Engine struct {
	llm          LLM
	parser       ResumeParser
	prefs        PreferenceExtractor
	matcher      match.Engine
	drafter      Drafter
	applicants   storage.ApplicantStore
	applications storage.ApplicationStore
	positions    storage.PositionStore
	followUpDays int
	matchK       int
	logger       *slog.Logger
	now          func() time.Time
}

func NewEngine(
	model LLM,
	parser ResumeParser,
	prefs PreferenceExtractor,
	matcher match.Engine,
	drafter Drafter,
	applicants storage.ApplicantStore,
	applications storage.ApplicationStore,
	positions storage.PositionStore,
	followUpDays int,
	logger *slog.Logger,
) *Engine {
	if followUpDays <= 0 {
		followUpDays = 7
	}
	return &Engine{
		llm:          model,
		parser:       parser,
		prefs:        prefs,
		matcher:      matcher,
		drafter:      drafter,
		applicants:   applicants,
		applications: applications,
		positions:    positions,
		followUpDays: followUpDays,
		matchK:       5,
		logger:       logger,
		now:          time.Now,
	}
}

// HandleMessage advances the session by one user turn. It holds the
// session's mutex for the duration, serializing concurrent turns on the
// same session.
func (e *Engine) HandleMessage(ctx context.Context, s *Session, msg Message) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UpdatedAt = e.now()

	stage := s.Stage
	if stage == StageDispatch || stage == "" {
		stage = e.route(ctx, msg)
		e.logger.Info("routed message", "session_id", s.ID, "stage", stage)
	}

	switch stage {
	case StageFallback:
		return e.handleFallback(ctx, s, msg)
	case StageIntake:
		return e.handleIntake(ctx, s, msg)
	case StageConfirm:
		return e.handleConfirm(ctx, s, msg)
	case StageCheckReplies:
		return e.handleCheckReplies(ctx, s)
	default:
		return Reply{}, fmt.Errorf("unknown stage %q", stage)
	}
}

// route decides where a fresh turn goes. A resume attachment always means
// intake; otherwise the LLM routes, with keyword rules as the error fallback.
func (e *Engine) route(ctx context.Context, msg Message) Stage {
	if msg.ResumeText != "" {
		return StageIntake
	}

	var tool chosenTool
	err := e.llm.ChatJSON(ctx, []llm.ChatMessage{
		{Role: "system", Content: routingPrompt},
		{Role: "user", Content: msg.Text},
	}, &tool)
	if err == nil {
		switch tool.ToolName {
		case "intake":
			return StageIntake
		case "check_replies":
			return StageCheckReplies
		case "fallback":
			return StageFallback
		}
	} else {
		e.logger.Warn("routing LLM failed, using keyword rules", "error", err)
	}

	lower := strings.ToLower(msg.Text)
	switch {
	case strings.Contains(lower, "resume") || strings.Contains(lower, "apply"):
		return StageIntake
	case strings.Contains(lower, "repl") || strings.Contains(lower, "follow"):
		return StageCheckReplies
	default:
		return StageFallback
	}
}

func (e *Engine) handleFallback(ctx context.Context, s *Session, msg Message) (Reply, error) {
	answer, err := e.llm.Complete(ctx, fmt.Sprintf(fallbackPrompt, msg.Text))
	if err != nil {
		e.logger.Warn("fallback LLM failed", "error", err)
		answer = fallbackCanned
	}
	s.Stage = StageDispatch
	return e.reply(s, answer), nil
}

func (e *Engine) handleIntake(ctx context.Context, s *Session, msg Message) (Reply, error) {
	s.Stage = StageIntake

	if s.Resume == nil {
		if msg.ResumeText == "" {
			return e.reply(s, "I'd love to help you apply. Please share your resume text so I can parse it."), nil
		}
		record, err := e.parser.Parse(ctx, msg.ResumeText, msg.Text)
		if err != nil {
			return Reply{}, fmt.Errorf("parse resume: %w", err)
		}
		s.Resume = record
		e.storeApplicant(ctx, record)
		e.logger.Info("resume parsed", "session_id", s.ID, "applicant", record.Email)
	}

	extraction, err := e.prefs.Extract(ctx, msg.Text, &s.Preferences)
	if err != nil {
		return Reply{}, fmt.Errorf("extract preferences: %w", err)
	}
	s.Preferences = extraction.Preferences

	if !extraction.IsSufficient {
		return e.reply(s, extraction.SuggestedQuestion), nil
	}

	matches, err := e.matcher.Match(ctx, s.Preferences.SearchTerms(), e.matchK)
	if err != nil {
		return Reply{}, fmt.Errorf("match positions: %w", err)
	}
	if len(matches) == 0 {
		s.Stage = StageDispatch
		return e.reply(s, "I couldn't find matching positions yet. New listings are ingested regularly, so please check back soon or broaden your preferences."), nil
	}

	s.Matches = matches
	s.Stage = StageConfirm

	summaries := make([]PositionSummary, 0, len(matches))
	var b strings.Builder
	b.WriteString("Here are the best matching positions I found:\n")
	for i, m := range matches {
		summaries = append(summaries, PositionSummary{
			ID:         m.Position.ID,
			Title:      m.Position.Title,
			University: m.Position.University,
			Country:    m.Position.Country,
			URL:        m.Position.URL,
			Score:      m.Score,
		})
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, m.Position.Title, m.Position.University, m.Position.Country)
	}
	b.WriteString("Shall I draft and send application emails for these? (yes/no)")

	r := e.reply(s, b.String())
	r.Positions = summaries
	return r, nil
}

func (e *Engine) handleConfirm(ctx context.Context, s *Session, msg Message) (Reply, error) {
	lower := strings.ToLower(msg.Text)
	switch {
	case strings.Contains(lower, "yes"):
		return e.sendApplications(ctx, s)
	case strings.Contains(lower, "no"):
		s.Stage = StageDispatch
		s.Matches = nil
		return e.reply(s, "Okay, no emails sent. Tell me what to change about your preferences and I'll search again."), nil
	default:
		s.Stage = StageConfirm
		return e.reply(s, "Please answer yes or no: should I draft and send the application emails?"), nil
	}
}

func (e *Engine) sendApplications(ctx context.Context, s *Session) (Reply, error) {
	if s.Resume == nil || len(s.Matches) == 0 {
		s.Stage = StageDispatch
		return e.reply(s, "I don't have a parsed resume and matched positions for this session anymore. Let's start over: please share your resume."), nil
	}

	user := mailer.UserFieldsFromRecord(*s.Resume)
	now := e.now()
	due := now.AddDate(0, 0, e.followUpDays)

	var emails []DraftedEmail
	var failures int
	for _, m := range s.Matches {
		pos := m.Position
		draft, err := e.drafter.DraftApplicationEmail(ctx, user, mailer.PositionFieldsFromStorage(*pos), nil)
		if err != nil {
			failures++
			e.logger.Error("drafting application failed", "position_id", pos.ID, "error", err)
			continue
		}

		app := &storage.Application{
			PositionID:     pos.ID,
			ApplicantEmail: s.Resume.Email,
			Subject:        draft.Subject,
			BodyMarkdown:   draft.Markdown,
			SentAt:         now,
			FollowUpDue:    due,
		}
		appID, err := e.applications.Insert(ctx, app)
		if err != nil {
			failures++
			e.logger.Error("recording application failed", "position_id", pos.ID, "error", err)
			continue
		}

		emails = append(emails, DraftedEmail{
			ApplicationID: appID,
			PositionID:    pos.ID,
			PositionTitle: pos.Title,
			Recipient:     pos.ContactEmail,
			Draft:         draft,
		})
	}

	if len(emails) == 0 {
		return Reply{}, fmt.Errorf("all %d application drafts failed", failures)
	}

	s.EmailsSent = true
	s.Matches = nil
	s.Stage = StageCheckReplies

	msg := fmt.Sprintf("I've drafted and recorded %d application emails. I'll track them and you can ask me any time to check for due follow-ups.", len(emails))
	if failures > 0 {
		msg += fmt.Sprintf(" %d positions could not be processed.", failures)
	}
	r := e.reply(s, msg)
	r.Emails = emails
	return r, nil
}

func (e *Engine) handleCheckReplies(ctx context.Context, s *Session) (Reply, error) {
	now := e.now()
	due, err := e.applications.ListDueFollowUps(ctx, now)
	if err != nil {
		return Reply{}, fmt.Errorf("list due follow-ups: %w", err)
	}

	if len(due) == 0 {
		s.Stage = StageDispatch
		return e.reply(s, "No applications are due a follow-up yet. I'll keep tracking them."), nil
	}

	var emails []DraftedEmail
	for _, app := range due {
		email, err := e.draftFollowUp(ctx, app, now)
		if err != nil {
			e.logger.Error("follow-up drafting failed", "application_id", app.ID, "error", err)
			continue
		}
		if err := e.applications.MarkFollowedUp(ctx, app.ID); err != nil {
			e.logger.Error("marking follow-up failed", "application_id", app.ID, "error", err)
			continue
		}
		emails = append(emails, email)
	}

	s.Stage = StageDispatch
	if len(emails) == 0 {
		return Reply{}, fmt.Errorf("all %d follow-up drafts failed", len(due))
	}

	r := e.reply(s, fmt.Sprintf("%d applications were due a follow-up; I've drafted the reminder emails.", len(emails)))
	r.Emails = emails
	return r, nil
}

func (e *Engine) draftFollowUp(ctx context.Context, app *storage.Application, now time.Time) (DraftedEmail, error) {
	pos, err := e.positions.GetByID(ctx, app.PositionID)
	if err != nil {
		return DraftedEmail{}, fmt.Errorf("resolve position: %w", err)
	}

	fullName := ""
	if applicant, err := e.applicants.GetByEmail(ctx, app.ApplicantEmail); err == nil {
		fullName = applicant.FullName
	} else if !errors.Is(err, storage.ErrNotFound) {
		return DraftedEmail{}, fmt.Errorf("resolve applicant: %w", err)
	}

	draft, err := e.drafter.DraftFollowUp(ctx, mailer.FollowUpInput{
		Subject:         app.Subject,
		RecipientName:   pos.ContactPerson,
		PositionTitle:   pos.Title,
		ApplicationDate: app.SentAt,
		UserFullName:    fullName,
		BodySnippet:     app.BodyMarkdown,
		Now:             now,
	})
	if err != nil {
		return DraftedEmail{}, err
	}

	return DraftedEmail{
		ApplicationID: app.ID,
		PositionID:    pos.ID,
		PositionTitle: pos.Title,
		Recipient:     pos.ContactEmail,
		Draft:         draft,
	}, nil
}

// storeApplicant persists the parsed resume record. Records without an email
// are kept in the session only.
func (e *Engine) storeApplicant(ctx context.Context, record *resume.Record) {
	if record.Email == "" {
		e.logger.Warn("resume record has no email, not persisting applicant")
		return
	}

	raw, err := json.Marshal(record)
	if err != nil {
		e.logger.Error("marshaling resume record failed", "error", err)
		return
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		e.logger.Error("unmarshaling resume record failed", "error", err)
		return
	}

	applicant := &storage.Applicant{
		Email:    record.Email,
		FullName: record.FullName,
		Phone:    record.Phone,
		Location: record.CurrentLocation,
		Record:   asMap,
	}
	if err := e.applicants.Upsert(ctx, applicant); err != nil {
		e.logger.Error("storing applicant failed", "email", record.Email, "error", err)
	}
}

func (e *Engine) reply(s *Session, message string) Reply {
	return Reply{SessionID: s.ID, Stage: s.Stage, Message: message}
}
