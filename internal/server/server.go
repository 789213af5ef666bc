// Package server exposes the chat assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crm-assistant/internal/chat/history"
	"crm-assistant/internal/common/config"
	apperrors "crm-assistant/internal/common/errors"
	"crm-assistant/internal/common/logger"
	"crm-assistant/internal/common/validation"
	"crm-assistant/internal/models"
)

const maxBodyBytes = 1 << 16

// ChatHandler processes one message into a reply.
type ChatHandler interface {
	Handle(ctx context.Context, message string) string
}

// HistoryAppender records an exchange, best-effort.
type HistoryAppender interface {
	Append(ctx context.Context, session string, entry history.Entry) error
}

type Server struct {
	cfg     *config.Config
	chat    ChatHandler
	history HistoryAppender
	logger  logger.Logger
	router  chi.Router
}

func New(cfg *config.Config, chat ChatHandler, hist HistoryAppender, log logger.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		chat:    chat,
		history: hist,
		logger:  log.WithFields(map[string]interface{}{"component": "server"}),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(Recoverer(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.AllowedRoles))
		r.Post("/api/chat", s.handleChat)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// chatRequest extends the public body with an optional session identifier
// used for conversation history.
type chatRequest struct {
	Message string `json:"message"`
	Session string `json:"session,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidRequestError("failed to read request body"))
		return
	}

	if err := validation.ValidateChatRequest(body); err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidRequestError("invalid JSON"))
		return
	}
	if req.Message == "" {
		apperrors.WriteHTTP(w, apperrors.NewInvalidRequestError("message is required"))
		return
	}

	reply := s.chat.Handle(r.Context(), req.Message)

	s.appendHistory(r.Context(), req, reply)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(models.ChatReply{Reply: reply})
}

// appendHistory records the exchange keyed by the session field, falling back
// to the authenticated subject. Failures are logged and swallowed: history is
// a dashboard convenience, never worth failing a chat reply over.
func (s *Server) appendHistory(ctx context.Context, req chatRequest, reply string) {
	if s.history == nil {
		return
	}

	session := req.Session
	if session == "" {
		session = subjectFrom(ctx)
	}
	if session == "" {
		session = "anonymous"
	}

	err := s.history.Append(ctx, session, history.Entry{
		Message: req.Message,
		Reply:   reply,
		At:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("history append failed", map[string]interface{}{
			"session": session,
			"error":   err.Error(),
		})
	}
}
