package positions

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/AminWork/IntelligentApply/internal/llm"
	"github.com/AminWork/IntelligentApply/internal/storage"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_pipeline.go -package=mocks -source=pipeline.go

// maxConcurrentPositions bounds how many position pages are processed at once
// during a full scrape.
const maxConcurrentPositions = 4

// Extractor is the JSON-mode chat capability the pipeline needs.
type Extractor interface {
	ChatJSON(ctx context.Context, messages []llm.ChatMessage, out any) error
}

// Embedder produces embedding vectors for keyword lists.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the slice of the vector store the pipeline writes to.
type VectorIndex interface {
	Add(id string, vec []float32, meta map[string]any) (vecstore.AddResult, error)
}

// TextFetcher turns a position URL into plain page text.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	Listings(ctx context.Context) ([]Listing, error)
}

// extractedFields is the structured output of the field-extraction prompt.
type extractedFields struct {
	UniversityName      string `json:"university_name"`
	DepartmentFaculty   string `json:"department_faculty"`
	LocationCountry     string `json:"location_country"`
	ApplicationDeadline string `json:"application_deadline"`
	ContactPerson       string `json:"contact_person"`
	ContactEmail        string `json:"contact_email"`
	Summary             string `json:"summary"`
}

type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// ScrapeSummary reports the outcome of a full index scrape.
type ScrapeSummary struct {
	Found     int `json:"found"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Pipeline ingests position pages: fetch, extract fields with the LLM,
// derive keywords, embed them, and store the result in SQLite plus the
// vector index.
type Pipeline struct {
	fetcher   TextFetcher
	llm       Extractor
	embedder  Embedder
	positions storage.PositionStore
	vectors   VectorIndex
	logger    *slog.Logger
}

func NewPipeline(fetcher TextFetcher, extractor Extractor, embedder Embedder, positions storage.PositionStore, vectors VectorIndex, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		llm:       extractor,
		embedder:  embedder,
		positions: positions,
		vectors:   vectors,
		logger:    logger,
	}
}

// Process ingests a single position page end to end.
func (p *Pipeline) Process(ctx context.Context, id, url, title string) error {
	p.logger.Info("processing position", "id", id, "url", url)

	text, err := p.fetcher.FetchText(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch position text: %w", err)
	}

	var fields extractedFields
	err = p.llm.ChatJSON(ctx, []llm.ChatMessage{
		{Role: "system", Content: "Extract the following from this PhD position text: university_name, department_faculty, location_country, application_deadline, contact_person, contact_email, summary. Respond in JSON with exactly those keys."},
		{Role: "user", Content: text},
	}, &fields)
	if err != nil {
		return fmt.Errorf("extract fields: %w", err)
	}
	if fields.Summary == "" {
		return fmt.Errorf("extract fields: empty summary for %s", url)
	}

	var kw keywordResponse
	err = p.llm.ChatJSON(ctx, []llm.ChatMessage{
		{Role: "system", Content: `From this summary, list 5-10 relevant keywords in JSON as {"keywords": [...]}.`},
		{Role: "user", Content: fields.Summary},
	}, &kw)
	if err != nil {
		return fmt.Errorf("extract keywords: %w", err)
	}
	if len(kw.Keywords) == 0 {
		return fmt.Errorf("extract keywords: none returned for %s", url)
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, kw.Keywords)
	if err != nil {
		return fmt.Errorf("embed keywords: %w", err)
	}
	vec, err := llm.AverageVectors(embeddings)
	if err != nil {
		return fmt.Errorf("average embeddings: %w", err)
	}

	pos := &storage.Position{
		ID:            id,
		URL:           url,
		Title:         title,
		University:    fields.UniversityName,
		Department:    fields.DepartmentFaculty,
		Country:       fields.LocationCountry,
		Deadline:      fields.ApplicationDeadline,
		ContactPerson: fields.ContactPerson,
		ContactEmail:  fields.ContactEmail,
		Summary:       fields.Summary,
		Keywords:      kw.Keywords,
	}
	if err := p.positions.Upsert(ctx, pos); err != nil {
		return fmt.Errorf("store position: %w", err)
	}

	meta := map[string]any{
		"url":        url,
		"title":      title,
		"university": fields.UniversityName,
	}
	if _, err := p.vectors.Add(id, vec, meta); err != nil {
		return fmt.Errorf("index position: %w", err)
	}

	p.logger.Info("position ingested", "id", id, "keywords", len(kw.Keywords))
	return nil
}

// ScrapeAll collects recent listings and processes them concurrently.
// Individual position failures are logged and counted, not fatal.
func (p *Pipeline) ScrapeAll(ctx context.Context) (ScrapeSummary, error) {
	listings, err := p.fetcher.Listings(ctx)
	if err != nil {
		return ScrapeSummary{}, err
	}
	if len(listings) == 0 {
		return ScrapeSummary{}, ErrNoListings
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPositions)
	for _, listing := range listings {
		listing := listing
		g.Go(func() error {
			id := PositionID(listing.URL)
			if err := p.Process(gctx, id, listing.URL, listing.Title); err != nil {
				failed.Add(1)
				p.logger.Error("position processing failed", "id", id, "url", listing.URL, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := ScrapeSummary{
		Found:     len(listings),
		Processed: len(listings) - int(failed.Load()),
		Failed:    int(failed.Load()),
	}
	p.logger.Info("scrape complete", "found", summary.Found, "processed", summary.Processed, "failed", summary.Failed)
	return summary, nil
}

// PositionID derives a stable document ID from a position URL.
func PositionID(url string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	return strconv.FormatUint(h.Sum64(), 10)
}
