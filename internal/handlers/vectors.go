package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AminWork/IntelligentApply/internal/contextutil"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

// VectorHandler exposes the vector store over HTTP.
type VectorHandler struct {
	store *vecstore.Store
}

// NewVectorHandler creates a new VectorHandler.
func NewVectorHandler(store *vecstore.Store) *VectorHandler {
	return &VectorHandler{store: store}
}

// AddRequest represents the payload for adding or updating a vector.
type AddRequest struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AddResponse reports the outcome of an add.
type AddResponse struct {
	Stored     bool   `json:"stored"`
	Action     string `json:"action"`
	InternalID int    `json:"internal_id"`
	NTotal     int    `json:"ntotal"`
}

// SearchRequest represents a similarity search payload.
type SearchRequest struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

// SearchResponse carries the ranked results.
type SearchResponse struct {
	Results    []vecstore.SearchResult `json:"results"`
	TotalFound int                     `json:"total_found"`
}

// ListResponse enumerates stored ID pairs.
type ListResponse struct {
	Count int               `json:"count"`
	IDs   []vecstore.IDPair `json:"ids"`
}

// EntriesResponse is a full dump of live entries.
type EntriesResponse struct {
	Count   int              `json:"count"`
	Vectors []vecstore.Entry `json:"vectors"`
}

// DeleteResponse reports a completed delete.
type DeleteResponse struct {
	Deleted    bool   `json:"deleted"`
	VectorID   string `json:"vector_id"`
	InternalID int    `json:"internal_id"`
}

// ClearResponse reports a completed clear.
type ClearResponse struct {
	Cleared bool `json:"cleared"`
	NTotal  int  `json:"ntotal"`
}

// Add handles POST /add.
func (h *VectorHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid add request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	result, err := h.store.Add(req.ID, req.Vector, req.Metadata)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to store vector")
		return
	}

	writeJSON(w, http.StatusOK, AddResponse{
		Stored:     true,
		Action:     string(result.Action),
		InternalID: result.InternalID,
		NTotal:     result.Total,
	})
}

// Search handles POST /search.
func (h *VectorHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid search request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.store.Search(req.Vector, req.K)
	if err != nil {
		h.writeStoreError(w, r, err, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results, TotalFound: len(results)})
}

// Get handles GET /get/{id}.
func (h *VectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to load vector")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Reconstruct handles GET /reconstruct/{internal_id}.
func (h *VectorHandler) Reconstruct(w http.ResponseWriter, r *http.Request) {
	internal, err := strconv.Atoi(chi.URLParam(r, "internal_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "internal_id must be an integer")
		return
	}

	entry, err := h.store.Reconstruct(internal)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to reconstruct vector")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// List handles GET /list.
func (h *VectorHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.store.List()
	writeJSON(w, http.StatusOK, ListResponse{Count: len(ids), IDs: ids})
}

// All handles GET /all.
func (h *VectorHandler) All(w http.ResponseWriter, r *http.Request) {
	entries := h.store.Entries(false)
	writeJSON(w, http.StatusOK, EntriesResponse{Count: len(entries), Vectors: entries})
}

// AllWithVectors handles GET /all_with_vectors.
func (h *VectorHandler) AllWithVectors(w http.ResponseWriter, r *http.Request) {
	entries := h.store.Entries(true)
	writeJSON(w, http.StatusOK, EntriesResponse{Count: len(entries), Vectors: entries})
}

// Delete handles DELETE /delete/{id}.
func (h *VectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	internal, err := h.store.Delete(id)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to delete vector")
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: true, VectorID: id, InternalID: internal})
}

// Clear handles DELETE /clear.
func (h *VectorHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.writeStoreError(w, r, err, "Failed to clear store")
		return
	}
	writeJSON(w, http.StatusOK, ClearResponse{Cleared: true, NTotal: 0})
}

// Info handles GET /info and GET /debug.
func (h *VectorHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Info())
}

// Stats handles GET /stats.
func (h *VectorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	info := h.store.Info()
	writeJSON(w, http.StatusOK, map[string]any{
		"ntotal":    info.LiveCount,
		"dimension": info.Dimension,
		"retired":   info.RetiredCount,
	})
}

// Ping handles GET /ping.
func (h *VectorHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

// writeStoreError maps store errors to HTTP status codes.
func (h *VectorHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var dimErr *vecstore.DimensionError
	var valErr *vecstore.ValueError
	switch {
	case errors.As(err, &dimErr), errors.As(err, &valErr):
		logger.WarnContext(ctx, "vector validation failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, vecstore.ErrEmptyIndex):
		writeError(w, http.StatusBadRequest, "Index is empty")
	case errors.Is(err, vecstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "Vector not found")
	case errors.Is(err, vecstore.ErrClosed):
		logger.ErrorContext(ctx, "store used after close")
		writeError(w, http.StatusServiceUnavailable, "Store is closed")
	default:
		logger.ErrorContext(ctx, "vector store error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
