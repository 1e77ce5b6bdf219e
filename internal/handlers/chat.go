package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AminWork/IntelligentApply/internal/contextutil"
	"github.com/AminWork/IntelligentApply/internal/conversation"
)

// ConversationEngine is the engine surface the chat handler needs.
type ConversationEngine interface {
	HandleMessage(ctx context.Context, s *conversation.Session, msg conversation.Message) (conversation.Reply, error)
}

// ChatHandler handles HTTP requests for the application conversation.
type ChatHandler struct {
	engine   ConversationEngine
	sessions *conversation.Registry
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine ConversationEngine, sessions *conversation.Registry) *ChatHandler {
	return &ChatHandler{engine: engine, sessions: sessions}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Message    string `json:"message"`
	ResumeText string `json:"resume_text,omitempty"`
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid chat request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" && req.ResumeText == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	session := h.sessions.GetOrCreate(req.SessionID)
	reply, err := h.engine.HandleMessage(ctx, session, conversation.Message{
		Text:       req.Message,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		logger.ErrorContext(ctx, "conversation turn failed", "session_id", session.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
