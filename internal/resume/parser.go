// Package resume extracts structured applicant data from resume text and
// elicits job-search preferences, both through strict-JSON LLM contracts.
package resume

import (
	"context"
	"fmt"

	"github.com/AminWork/IntelligentApply/internal/llm"
)

// Completer is the slice of the LLM client this package consumes.
type Completer interface {
	// ChatJSON runs the completion in JSON mode and decodes the reply into out.
	ChatJSON(ctx context.Context, messages []llm.ChatMessage, out any) error
}

const parsingSystemPrompt = `You are a Resume Parsing Agent. Your task is to extract structured information from a user's resume. The resume may be provided as pasted text or parsed from a document.

Your output should be a clean JSON object with the following fields:

{
  "full_name": "",
  "email": "",
  "phone": "",
  "current_location": "",
  "desired_location": "",
  "education": [
    {
      "degree": "",
      "field": "",
      "institution": "",
      "graduation_year": ""
    }
  ],
  "research_interests": [],
  "technical_skills": [],
  "publications": [
    {
      "title": "",
      "venue": "",
      "year": "",
      "link": ""
    }
  ],
  "work_experience": [
    {
      "role": "",
      "organization": "",
      "start_date": "",
      "end_date": "",
      "description": ""
    }
  ],
  "languages": [],
  "web_links": {
    "LinkedIn": "",
    "GoogleScholar": "",
    "PersonalWebsite": ""
  }
}

Follow these instructions:
- Keep field values short and precise.
- If a field is not found, leave it as an empty string or empty list.
- For publications, include at least 3 if possible.
- Only extract factual information. Do not infer or hallucinate.`

// Education is one degree entry on a resume.
type Education struct {
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	Institution    string `json:"institution"`
	GraduationYear string `json:"graduation_year"`
}

// Publication is one publication entry on a resume.
type Publication struct {
	Title string `json:"title"`
	Venue string `json:"venue"`
	Year  string `json:"year"`
	Link  string `json:"link"`
}

// Experience is one work experience entry on a resume.
type Experience struct {
	Role         string `json:"role"`
	Organization string `json:"organization"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
}

// Record is the structured resume as extracted by the model.
type Record struct {
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	CurrentLocation   string            `json:"current_location"`
	DesiredLocation   string            `json:"desired_location"`
	Education         []Education       `json:"education"`
	ResearchInterests []string          `json:"research_interests"`
	TechnicalSkills   []string          `json:"technical_skills"`
	Publications      []Publication     `json:"publications"`
	WorkExperience    []Experience      `json:"work_experience"`
	Languages         []string          `json:"languages"`
	WebLinks          map[string]string `json:"web_links"`
}

// Parser extracts a structured Record from raw resume text.
type Parser struct {
	llm Completer
}

// NewParser creates a new resume Parser.
func NewParser(completer Completer) *Parser {
	return &Parser{llm: completer}
}

// Parse extracts a structured resume record from the given text. userPrompt
// carries any extra instruction the user attached alongside the resume.
func (p *Parser) Parse(ctx context.Context, resumeText, userPrompt string) (*Record, error) {
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: parsingSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Resume:\n%s\n\nPrompt: %s", resumeText, userPrompt)},
	}

	var record Record
	if err := p.llm.ChatJSON(ctx, messages, &record); err != nil {
		return nil, fmt.Errorf("resume parsing failed: %w", err)
	}
	return &record, nil
}
