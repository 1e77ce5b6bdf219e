package resume

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AminWork/IntelligentApply/internal/llm"
)

const preferenceSystemPrompt = `You are a Preference Extraction Assistant. Your goal is to help a user specify their job preferences for an academic position search.
You will be given the user's text input and the current state of their preferences (which might be partially filled or empty).
Your task is to:
1. Parse the user's latest input to identify any job preferences they've mentioned.
2. Update the provided preference data with any new information from the user's input. Merge intelligently; don't just overwrite if the user provides partial updates.
3. Determine if sufficient information has been collected to proceed with a job search. "Sufficient" generally means 'position_type' and 'fields_of_interest' are filled. Other fields are valuable but may not block proceeding if these primary ones are known.
4. Respond with a JSON object ONLY, with NO other text before or after the JSON. The JSON structure MUST be:

{
  "extracted_preferences": {
    "position_type": "",
    "fields_of_interest": [],
    "preferred_locations": [],
    "excluded_locations": [],
    "funding_required": null,
    "citizenship_constraints": "",
    "start_date": "",
    "important_keywords": [],
    "dealbreakers": []
  },
  "is_sufficient": false,
  "suggested_question": "What type of position are you primarily looking for (e.g., PhD, Postdoc)?"
}

Guidelines:
- Adhere strictly to the data types shown (string, list of strings, boolean/null).
- For lists, append new items if the user provides more; only replace when the user explicitly replaces all previous entries. If the user says "none" for a list field, use an empty list.
- For funding_required: "require funding" or "need funding" means true; "self-funded" or "don't need funding" means false; otherwise keep null.
- If is_sufficient is false, formulate a polite and concise question targeting one or two of the most important missing preferences.
- Make sure your entire response is a single JSON object.`

// Preferences is the user's structured job-search filter set.
type Preferences struct {
	PositionType           string   `json:"position_type"`
	FieldsOfInterest       []string `json:"fields_of_interest"`
	PreferredLocations     []string `json:"preferred_locations"`
	ExcludedLocations      []string `json:"excluded_locations"`
	FundingRequired        *bool    `json:"funding_required"`
	CitizenshipConstraints string   `json:"citizenship_constraints"`
	StartDate              string   `json:"start_date"`
	ImportantKeywords      []string `json:"important_keywords"`
	Dealbreakers           []string `json:"dealbreakers"`
}

// Sufficient reports whether enough is known to run a position search:
// the position type and at least one field of interest.
func (p *Preferences) Sufficient() bool {
	return p.PositionType != "" && len(p.FieldsOfInterest) > 0
}

// SearchTerms returns the terms to embed for position matching.
func (p *Preferences) SearchTerms() []string {
	terms := make([]string, 0, 1+len(p.FieldsOfInterest)+len(p.ImportantKeywords))
	if p.PositionType != "" {
		terms = append(terms, p.PositionType)
	}
	terms = append(terms, p.FieldsOfInterest...)
	terms = append(terms, p.ImportantKeywords...)
	return terms
}

// Extraction is the model's reply: updated preferences, a sufficiency flag,
// and the next question to ask when more is needed.
type Extraction struct {
	Preferences       Preferences `json:"extracted_preferences"`
	IsSufficient      bool        `json:"is_sufficient"`
	SuggestedQuestion string      `json:"suggested_question"`
}

// Extractor elicits preferences over several conversation turns.
type Extractor struct {
	llm Completer
}

// NewExtractor creates a new preference Extractor.
func NewExtractor(completer Completer) *Extractor {
	return &Extractor{llm: completer}
}

// Extract parses the user's latest message against the current preferences
// and returns the merged update. Previously captured fields are never lost:
// the model's reply is merged into current rather than trusted wholesale.
func (e *Extractor) Extract(ctx context.Context, userText string, current *Preferences) (*Extraction, error) {
	if current == nil {
		current = &Preferences{}
	}

	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current preferences: %w", err)
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: preferenceSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Current Preferences:\n```json\n%s\n```\n\nUser's latest message:\n```\n%s\n```\n\nYour JSON response:",
			currentJSON, userText)},
	}

	var extraction Extraction
	if err := e.llm.ChatJSON(ctx, messages, &extraction); err != nil {
		return nil, fmt.Errorf("preference extraction failed: %w", err)
	}

	extraction.Preferences = Merge(*current, extraction.Preferences)
	if extraction.Preferences.Sufficient() {
		extraction.IsSufficient = true
	}
	if !extraction.IsSufficient && extraction.SuggestedQuestion == "" {
		extraction.SuggestedQuestion = "Could you tell me a bit more about your preferences?"
	}
	return &extraction, nil
}

// Merge folds update into base without losing captured data: list fields are
// unioned preserving order, scalar fields keep their base value when the
// update leaves them empty.
func Merge(base, update Preferences) Preferences {
	merged := base

	if update.PositionType != "" {
		merged.PositionType = update.PositionType
	}
	if update.CitizenshipConstraints != "" {
		merged.CitizenshipConstraints = update.CitizenshipConstraints
	}
	if update.StartDate != "" {
		merged.StartDate = update.StartDate
	}
	if update.FundingRequired != nil {
		merged.FundingRequired = update.FundingRequired
	}

	merged.FieldsOfInterest = unionStrings(base.FieldsOfInterest, update.FieldsOfInterest)
	merged.PreferredLocations = unionStrings(base.PreferredLocations, update.PreferredLocations)
	merged.ExcludedLocations = unionStrings(base.ExcludedLocations, update.ExcludedLocations)
	merged.ImportantKeywords = unionStrings(base.ImportantKeywords, update.ImportantKeywords)
	merged.Dealbreakers = unionStrings(base.Dealbreakers, update.Dealbreakers)

	return merged
}

func unionStrings(base, update []string) []string {
	seen := make(map[string]bool, len(base)+len(update))
	out := make([]string, 0, len(base)+len(update))
	for _, lst := range [][]string{base, update} {
		for _, v := range lst {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
