package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AminWork/IntelligentApply/internal/contextutil"
	"github.com/AminWork/IntelligentApply/internal/positions"
	"github.com/AminWork/IntelligentApply/internal/storage"
)

// Ingestor is the pipeline surface the positions handler needs.
type Ingestor interface {
	Process(ctx context.Context, id, url, title string) error
	ScrapeAll(ctx context.Context) (positions.ScrapeSummary, error)
}

// PositionsHandler handles HTTP requests for position ingestion and listing.
type PositionsHandler struct {
	pipeline Ingestor
	store    storage.PositionStore
}

// NewPositionsHandler creates a new PositionsHandler.
func NewPositionsHandler(pipeline Ingestor, store storage.PositionStore) *PositionsHandler {
	return &PositionsHandler{pipeline: pipeline, store: store}
}

// FetchRequest represents the payload for ingesting a single position.
type FetchRequest struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Fetch handles POST /api/fetch.
func (h *PositionsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid fetch request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.ID == "" {
		req.ID = positions.PositionID(req.URL)
	}

	if err := h.pipeline.Process(ctx, req.ID, req.URL, req.Title); err != nil {
		logger.ErrorContext(ctx, "position ingestion failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process position")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": req.ID})
}

// Scrape handles GET /api/scrape.
func (h *PositionsHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	summary, err := h.pipeline.ScrapeAll(ctx)
	if errors.Is(err, positions.ErrNoListings) {
		writeError(w, http.StatusNotFound, "No recent listings found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "scrape failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Scrape failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "scraped",
		"found":     summary.Found,
		"processed": summary.Processed,
		"failed":    summary.Failed,
	})
}

// List handles GET /api/positions.
func (h *PositionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	all, err := h.store.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "listing positions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list positions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": len(all), "positions": all})
}
