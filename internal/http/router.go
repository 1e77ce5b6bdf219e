package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AminWork/IntelligentApply/internal/conversation"
	"github.com/AminWork/IntelligentApply/internal/handlers"
	"github.com/AminWork/IntelligentApply/internal/storage"
	"github.com/AminWork/IntelligentApply/internal/vecstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	VectorStore *vecstore.Store
	DB          *sql.DB
	Engine      handlers.ConversationEngine
	Sessions    *conversation.Registry
	Pipeline    handlers.Ingestor
	Positions   storage.PositionStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	vectors := handlers.NewVectorHandler(deps.VectorStore)
	chat := handlers.NewChatHandler(deps.Engine, deps.Sessions)
	posns := handlers.NewPositionsHandler(deps.Pipeline, deps.Positions)
	health := handlers.NewHealthHandler(deps.VectorStore, deps.DB)

	// Vector store facade. Route names keep the service's original wire
	// contract, so /add and /search stay at the root.
	r.Post("/add", vectors.Add)
	r.Post("/search", vectors.Search)
	r.Get("/get/{id}", vectors.Get)
	r.Get("/reconstruct/{internal_id}", vectors.Reconstruct)
	r.Get("/list", vectors.List)
	r.Get("/all", vectors.All)
	r.Get("/all_with_vectors", vectors.AllWithVectors)
	r.Delete("/delete/{id}", vectors.Delete)
	r.Delete("/clear", vectors.Clear)
	r.Get("/info", vectors.Info)
	r.Get("/debug", vectors.Info)
	r.Get("/stats", vectors.Stats)
	r.Get("/ping", vectors.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chat)
		r.Post("/fetch", posns.Fetch)
		r.Get("/scrape", posns.Scrape)
		r.Get("/positions", posns.List)
		r.Method(http.MethodGet, "/health", health)
	})

	return r
}
