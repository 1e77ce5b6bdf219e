package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/AminWork/IntelligentApply/internal/resume"
	"github.com/AminWork/IntelligentApply/internal/storage"
)

// Completer is the single LLM capability drafting needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// UserFields is the flattened applicant view fed into the drafting prompts.
// Every field is a display string; empty values render as "N/A".
type UserFields struct {
	FullName           string
	Email              string
	Website            string
	LinkedIn           string
	Summary            string
	Scores             string
	Skills             []string
	ResearchInterests  []string
	Education          []string
	ResearchExperience []string
	WorkExperience     []string
	Publications       []string
	Awards             []string
}

// PositionFields is the flattened position view fed into the drafting prompts.
type PositionFields struct {
	Title         string
	University    string
	Department    string
	Location      string
	Deadline      string
	ContactPerson string
	Summary       string
	Keywords      []string
}

// Draft is a generated email or letter, kept in markdown alongside an HTML
// rendering for clients that want rich display.
type Draft struct {
	Subject  string `json:"subject"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// FollowUpInput describes the original application a follow-up refers to.
type FollowUpInput struct {
	Subject         string
	RecipientName   string
	PositionTitle   string
	ApplicationDate time.Time
	UserFullName    string
	BodySnippet     string
	Now             time.Time
}

type Drafter struct {
	llm Completer
}

func NewDrafter(llm Completer) *Drafter {
	return &Drafter{llm: llm}
}

// DraftApplicationEmail drafts the initial outreach email for a position.
// attachments lists extra file names beyond the CV itself.
func (d *Drafter) DraftApplicationEmail(ctx context.Context, user UserFields, pos PositionFields, attachments []string) (Draft, error) {
	body, err := d.render(ctx, applicationEmailTemplate, map[string]any{
		"User":                   displayUser(user),
		"Position":               displayPosition(pos),
		"UserSkills":             formatList(user.Skills),
		"UserResearchInterests":  formatList(user.ResearchInterests),
		"UserEducation":          formatList(user.Education),
		"UserResearchExperience": formatList(user.ResearchExperience),
		"UserWorkExperience":     formatList(user.WorkExperience),
		"UserPublications":       formatList(user.Publications),
		"UserAwards":             formatList(user.Awards),
		"PositionKeywords":       formatList(pos.Keywords),
		"Salutation":             Salutation(pos.ContactPerson),
		"Attachments":            strings.Join(attachments, ", "),
	})
	if err != nil {
		return Draft{}, err
	}
	return d.finish(applicationSubject(user, pos), body)
}

// DraftCoverLetter drafts the cover letter body for a position.
func (d *Drafter) DraftCoverLetter(ctx context.Context, user UserFields, pos PositionFields, now time.Time) (Draft, error) {
	body, err := d.render(ctx, coverLetterTemplate, map[string]any{
		"User":                   displayUser(user),
		"Position":               displayPosition(pos),
		"UserSkills":             formatList(user.Skills),
		"UserResearchInterests":  formatList(user.ResearchInterests),
		"UserEducation":          formatList(user.Education),
		"UserResearchExperience": formatList(user.ResearchExperience),
		"UserWorkExperience":     formatList(user.WorkExperience),
		"UserPublications":       formatList(user.Publications),
		"UserAwards":             formatList(user.Awards),
		"PositionKeywords":       formatList(pos.Keywords),
		"Salutation":             Salutation(pos.ContactPerson),
		"Date":                   now.Format("January 2, 2006"),
	})
	if err != nil {
		return Draft{}, err
	}
	subject := fmt.Sprintf("Cover Letter - %s", orNA(pos.Title))
	return d.finish(subject, body)
}

// DraftFollowUp drafts a reminder for an application that has gone unanswered.
func (d *Drafter) DraftFollowUp(ctx context.Context, in FollowUpInput) (Draft, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	snippet := in.BodySnippet
	if len(snippet) > 300 {
		snippet = snippet[:300]
	}
	body, err := d.render(ctx, followUpTemplate, map[string]any{
		"Subject":         orNA(in.Subject),
		"RecipientName":   Salutation(in.RecipientName),
		"PositionTitle":   orNA(in.PositionTitle),
		"ApplicationDate": in.ApplicationDate.Format("January 2, 2006"),
		"TimeElapsed":     elapsed(in.ApplicationDate, now),
		"UserFullName":    orNA(in.UserFullName),
		"BodySnippet":     orNA(snippet),
	})
	if err != nil {
		return Draft{}, err
	}
	subject := in.Subject
	if subject == "" {
		subject = fmt.Sprintf("Application - %s", orNA(in.PositionTitle))
	}
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return d.finish(subject, body)
}

func (d *Drafter) render(ctx context.Context, tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	out, err := d.llm.Complete(ctx, buf.String())
	if err != nil {
		return "", fmt.Errorf("draft: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (d *Drafter) finish(subject, body string) (Draft, error) {
	html, err := RenderHTML(body)
	if err != nil {
		return Draft{}, err
	}
	return Draft{Subject: subject, Markdown: body, HTML: html}, nil
}

func applicationSubject(user UserFields, pos PositionFields) string {
	return fmt.Sprintf("Application for %s - %s", orNA(pos.Title), orNA(user.FullName))
}

// Salutation derives the greeting name from a contact line. A leading title
// keeps the title plus the last name; anything else is used as-is.
func Salutation(contact string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return "Hiring Committee"
	}
	parts := strings.Fields(contact)
	switch strings.TrimSuffix(strings.ToLower(parts[0]), ".") {
	case "prof", "dr", "mr", "mrs", "ms", "mx":
		if len(parts) > 1 {
			return parts[0] + " " + parts[len(parts)-1]
		}
	}
	return contact
}

// UserFieldsFromRecord flattens a parsed resume record into prompt fields.
func UserFieldsFromRecord(rec resume.Record) UserFields {
	u := UserFields{
		FullName:          rec.FullName,
		Email:             rec.Email,
		Skills:            rec.TechnicalSkills,
		ResearchInterests: rec.ResearchInterests,
		Website:           rec.WebLinks["website"],
		LinkedIn:          rec.WebLinks["linkedin"],
	}
	for _, e := range rec.Education {
		u.Education = append(u.Education, strings.TrimSpace(fmt.Sprintf("%s in %s, %s (%s)", e.Degree, e.Field, e.Institution, e.GraduationYear)))
	}
	for _, p := range rec.Publications {
		u.Publications = append(u.Publications, strings.TrimSpace(fmt.Sprintf("%s, %s %s", p.Title, p.Venue, p.Year)))
	}
	for _, w := range rec.WorkExperience {
		u.WorkExperience = append(u.WorkExperience, strings.TrimSpace(fmt.Sprintf("%s at %s (%s - %s)", w.Role, w.Organization, w.StartDate, w.EndDate)))
	}
	return u
}

// PositionFieldsFromStorage flattens a stored position into prompt fields.
func PositionFieldsFromStorage(p storage.Position) PositionFields {
	return PositionFields{
		Title:         p.Title,
		University:    p.University,
		Department:    p.Department,
		Location:      p.Country,
		Deadline:      p.Deadline,
		ContactPerson: p.ContactPerson,
		Summary:       p.Summary,
		Keywords:      p.Keywords,
	}
}

func displayUser(u UserFields) UserFields {
	u.FullName = orNA(u.FullName)
	u.Email = orNA(u.Email)
	u.Website = orNA(u.Website)
	u.LinkedIn = orNA(u.LinkedIn)
	u.Summary = orNA(u.Summary)
	u.Scores = orNA(u.Scores)
	return u
}

func displayPosition(p PositionFields) PositionFields {
	p.Title = orNA(p.Title)
	p.University = orNA(p.University)
	p.Department = orNA(p.Department)
	p.Location = orNA(p.Location)
	p.Deadline = orNA(p.Deadline)
	p.ContactPerson = orNA(p.ContactPerson)
	p.Summary = orNA(p.Summary)
	return p
}

func formatList(items []string) string {
	var kept []string
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "N/A"
	}
	return strings.Join(kept, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func elapsed(from, to time.Time) string {
	days := int(to.Sub(from).Hours() / 24)
	switch {
	case days <= 0:
		return "less than a day"
	case days == 1:
		return "1 day"
	case days < 14:
		return fmt.Sprintf("%d days", days)
	default:
		return fmt.Sprintf("%d weeks", days/7)
	}
}
