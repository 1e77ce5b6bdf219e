package positions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/AminWork/IntelligentApply/internal/llm"
	"github.com/AminWork/IntelligentApply/internal/storage"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

type fakeFetcher struct {
	text     string
	textErr  error
	listings []Listing
	listErr  error
}

func (f *fakeFetcher) FetchText(context.Context, string) (string, error) {
	return f.text, f.textErr
}

func (f *fakeFetcher) Listings(context.Context) ([]Listing, error) {
	return f.listings, f.listErr
}

// fakeExtractor answers the field prompt and the keyword prompt by system
// message content.
type fakeExtractor struct {
	fields   extractedFields
	keywords []string
	err      error
}

func (f *fakeExtractor) ChatJSON(_ context.Context, messages []llm.ChatMessage, out any) error {
	if f.err != nil {
		return f.err
	}
	if strings.Contains(messages[0].Content, "keywords") {
		*(out.(*keywordResponse)) = keywordResponse{Keywords: f.keywords}
		return nil
	}
	*(out.(*extractedFields)) = f.fields
	return nil
}

type fakeEmbedder struct {
	dim int
	err error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, f.dim)
		vec[0] = float32(i + 1)
		out[i] = vec
	}
	return out, nil
}

type fakePositionStore struct {
	mu       sync.Mutex
	upserted map[string]*storage.Position
	err      error
}

func (f *fakePositionStore) Upsert(_ context.Context, pos *storage.Position) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = make(map[string]*storage.Position)
	}
	f.upserted[pos.ID] = pos
	return nil
}

func (f *fakePositionStore) GetByID(context.Context, string) (*storage.Position, error) {
	return nil, storage.ErrNotFound
}

func (f *fakePositionStore) GetByIDs(context.Context, []string) ([]*storage.Position, error) {
	return nil, nil
}

func (f *fakePositionStore) ListAll(context.Context) ([]*storage.Position, error) {
	return nil, nil
}

type fakeIndex struct {
	mu      sync.Mutex
	added   map[string][]float32
	meta    map[string]map[string]any
	err     error
}

func (f *fakeIndex) Add(id string, vec []float32, meta map[string]any) (vecstore.AddResult, error) {
	if f.err != nil {
		return vecstore.AddResult{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.added == nil {
		f.added = make(map[string][]float32)
		f.meta = make(map[string]map[string]any)
	}
	f.added[id] = vec
	f.meta[id] = meta
	return vecstore.AddResult{Action: vecstore.ActionAdded, Total: len(f.added)}, nil
}

func testPipeline(fetcher *fakeFetcher, extractor *fakeExtractor, embedder *fakeEmbedder, store *fakePositionStore, index *fakeIndex) *Pipeline {
	return NewPipeline(fetcher, extractor, embedder, store, index, testLogger())
}

func TestPipelineProcess(t *testing.T) {
	fetcher := &fakeFetcher{text: "PhD position in computational biology at Leiden."}
	extractor := &fakeExtractor{
		fields: extractedFields{
			UniversityName:      "Leiden University",
			DepartmentFaculty:   "LIACS",
			LocationCountry:     "Netherlands",
			ApplicationDeadline: "2026-09-01",
			ContactPerson:       "Dr. Pieter Bos",
			ContactEmail:        "bos@liacs.nl",
			Summary:             "Computational biology PhD.",
		},
		keywords: []string{"computational biology", "genomics"},
	}
	embedder := &fakeEmbedder{dim: 4}
	store := &fakePositionStore{}
	index := &fakeIndex{}

	p := testPipeline(fetcher, extractor, embedder, store, index)
	if err := p.Process(context.Background(), "pos-1", "https://example.org/p/1", "PhD in Comp Bio"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	pos := store.upserted["pos-1"]
	if pos == nil {
		t.Fatal("position not stored")
	}
	if pos.University != "Leiden University" || pos.Title != "PhD in Comp Bio" {
		t.Errorf("stored position = %+v", pos)
	}
	if len(pos.Keywords) != 2 {
		t.Errorf("Keywords = %v", pos.Keywords)
	}

	vec := index.added["pos-1"]
	if len(vec) != 4 {
		t.Fatalf("indexed vector dim = %d, want 4", len(vec))
	}
	// Two keyword embeddings [1,0,0,0] and [2,0,0,0] average to [1.5,...].
	if vec[0] != 1.5 {
		t.Errorf("vec[0] = %v, want 1.5", vec[0])
	}
	if index.meta["pos-1"]["university"] != "Leiden University" {
		t.Errorf("metadata = %v", index.meta["pos-1"])
	}
}

func TestPipelineProcessEmptySummary(t *testing.T) {
	p := testPipeline(
		&fakeFetcher{text: "position text"},
		&fakeExtractor{fields: extractedFields{}, keywords: []string{"x"}},
		&fakeEmbedder{dim: 4},
		&fakePositionStore{},
		&fakeIndex{},
	)

	if err := p.Process(context.Background(), "pos-1", "https://example.org/p/1", ""); err == nil {
		t.Fatal("expected error for empty summary")
	}
}

func TestPipelineProcessErrors(t *testing.T) {
	boom := errors.New("boom")
	base := func() (*fakeFetcher, *fakeExtractor, *fakeEmbedder, *fakePositionStore, *fakeIndex) {
		return &fakeFetcher{text: "text"},
			&fakeExtractor{fields: extractedFields{Summary: "s"}, keywords: []string{"k"}},
			&fakeEmbedder{dim: 2},
			&fakePositionStore{},
			&fakeIndex{}
	}

	tests := []struct {
		name  string
		wired func() *Pipeline
	}{
		{"fetch fails", func() *Pipeline {
			f, e, em, s, i := base()
			f.textErr = boom
			return testPipeline(f, e, em, s, i)
		}},
		{"llm fails", func() *Pipeline {
			f, e, em, s, i := base()
			e.err = boom
			return testPipeline(f, e, em, s, i)
		}},
		{"embedding fails", func() *Pipeline {
			f, e, em, s, i := base()
			em.err = boom
			return testPipeline(f, e, em, s, i)
		}},
		{"store fails", func() *Pipeline {
			f, e, em, s, i := base()
			s.err = boom
			return testPipeline(f, e, em, s, i)
		}},
		{"index fails", func() *Pipeline {
			f, e, em, s, i := base()
			i.err = boom
			return testPipeline(f, e, em, s, i)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.wired().Process(context.Background(), "id", "https://example.org", "t"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPipelineScrapeAll(t *testing.T) {
	fetcher := &fakeFetcher{
		text: "page text",
		listings: []Listing{
			{Title: "A", URL: "https://example.org/a"},
			{Title: "B", URL: "https://example.org/b"},
		},
	}
	store := &fakePositionStore{}
	index := &fakeIndex{}
	p := testPipeline(fetcher,
		&fakeExtractor{fields: extractedFields{Summary: "s"}, keywords: []string{"k"}},
		&fakeEmbedder{dim: 2}, store, index)

	summary, err := p.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll() error = %v", err)
	}
	if summary.Found != 2 || summary.Processed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(store.upserted) != 2 {
		t.Errorf("stored %d positions, want 2", len(store.upserted))
	}
}

func TestPipelineScrapeAllCountsFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		text:     "page text",
		listings: []Listing{{Title: "A", URL: "https://example.org/a"}},
	}
	p := testPipeline(fetcher,
		&fakeExtractor{err: errors.New("llm down")},
		&fakeEmbedder{dim: 2}, &fakePositionStore{}, &fakeIndex{})

	summary, err := p.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll() error = %v", err)
	}
	if summary.Failed != 1 || summary.Processed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestPipelineScrapeAllNoListings(t *testing.T) {
	p := testPipeline(&fakeFetcher{}, &fakeExtractor{}, &fakeEmbedder{dim: 2}, &fakePositionStore{}, &fakeIndex{})

	if _, err := p.ScrapeAll(context.Background()); !errors.Is(err, ErrNoListings) {
		t.Fatalf("error = %v, want ErrNoListings", err)
	}
}

func TestPositionIDStable(t *testing.T) {
	a := PositionID("https://example.org/p/1")
	b := PositionID("https://example.org/p/1")
	c := PositionID("https://example.org/p/2")
	if a != b {
		t.Errorf("PositionID not stable: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("distinct URLs collided: %s", a)
	}
}
