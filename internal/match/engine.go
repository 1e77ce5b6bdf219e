package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AminWork/IntelligentApply/internal/llm"
	"github.com/AminWork/IntelligentApply/internal/storage"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks github.com/AminWork/IntelligentApply/internal/match Engine

// defaultK is how many positions a match returns when the caller does not say.
const defaultK = 5

// maxK caps a single match request.
const maxK = 20

// Embedder produces embedding vectors for search terms.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the similarity-search slice of the vector store.
type Searcher interface {
	Search(query []float32, k int) ([]vecstore.SearchResult, error)
}

// Match is a stored position paired with its similarity score.
type Match struct {
	Position *storage.Position `json:"position"`
	Score    float32           `json:"score"`
}

// Engine finds stored positions matching a set of preference terms.
type Engine interface {
	Match(ctx context.Context, terms []string, k int) ([]Match, error)
}

type engine struct {
	embedder  Embedder
	vectors   Searcher
	positions storage.PositionStore
	logger    *slog.Logger
}

func NewEngine(embedder Embedder, vectors Searcher, positions storage.PositionStore, logger *slog.Logger) Engine {
	return &engine{
		embedder:  embedder,
		vectors:   vectors,
		positions: positions,
		logger:    logger,
	}
}

// Match embeds the terms, averages them into a single query vector, searches
// the index, and resolves hits to stored positions. Hits whose position is no
// longer stored are skipped. An empty index yields an empty result, not an
// error.
func (e *engine) Match(ctx context.Context, terms []string, k int) ([]Match, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("no search terms")
	}
	if k <= 0 {
		k = defaultK
	}
	if k > maxK {
		k = maxK
	}

	embeddings, err := e.embedder.EmbedTexts(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("embed terms: %w", err)
	}
	query, err := llm.AverageVectors(embeddings)
	if err != nil {
		return nil, fmt.Errorf("average term embeddings: %w", err)
	}

	hits, err := e.vectors.Search(query, k)
	if errors.Is(err, vecstore.ErrEmptyIndex) {
		e.logger.Info("match against empty index", "terms", len(terms))
		return []Match{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	scores := make(map[string]float32, len(hits))
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.OriginalID)
		scores[hit.OriginalID] = hit.Score
	}

	positions, err := e.positions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve positions: %w", err)
	}

	matches := make([]Match, 0, len(positions))
	for _, pos := range positions {
		matches = append(matches, Match{Position: pos, Score: scores[pos.ID]})
	}
	e.logger.Info("match complete", "terms", len(terms), "hits", len(hits), "resolved", len(matches))
	return matches, nil
}
