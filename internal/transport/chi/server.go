// Package chi is the HTTP adapter over the engine services.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/domain"
	categoryuc "github.com/archivio-cloud/archidex/internal/usecase/category"
	chatuc "github.com/archivio-cloud/archidex/internal/usecase/chat"
	healthuc "github.com/archivio-cloud/archidex/internal/usecase/health"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeMalformedQuery   = "malformed_query"
	codeCategoryNotFound = "category_not_found"
	codeInternalError    = "internal_error"
)

// emptyQueryPrompt is the user-facing message for an empty chat query.
const emptyQueryPrompt = "Escribe lo que deseas buscar, por ejemplo: documentos sobre la dictadura."

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the chat, category, and health services over HTTP.
type Server struct {
	chat          *chatuc.Service
	categories    *categoryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	chat *chatuc.Service,
	categories *categoryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:       chat,
		categories: categories,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMalformedQuery, http.StatusBadRequest, codeMalformedQuery, emptyQueryPrompt),
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, codeCategoryNotFound, "category not found"),
	}
	return s
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/chat", s.Chat)
	r.Get("/api/v1/categories", s.ListCategories)
	r.Get("/api/v1/categories/{kind}/{name}", s.CategoryRecords)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type chatDocument struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Score    float64 `json:"score"`
	Repeated bool    `json:"repeated,omitempty"`
}

type chatResponse struct {
	SessionID   string         `json:"session_id"`
	Message     string         `json:"message"`
	Documents   []chatDocument `json:"documents"`
	Suggestions []string       `json:"suggestions"`
	Intent      string         `json:"intent"`
	State       string         `json:"state"`
}

// Chat handles POST /api/v1/chat. A missing session_id starts a new session.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.chat.Respond(r.Context(), sessionID, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	docs := make([]chatDocument, 0, len(reply.Documents))
	for _, d := range reply.Documents {
		docs = append(docs, chatDocument{
			ID:       d.ID,
			Title:    d.Title,
			Link:     d.Link,
			Score:    d.Score,
			Repeated: d.Repeated,
		})
	}

	suggestions := reply.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:   sessionID,
		Message:     reply.Message,
		Documents:   docs,
		Suggestions: suggestions,
		Intent:      string(reply.Intent),
		State:       string(reply.State),
	})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.categories.List())
}

// CategoryRecords handles GET /api/v1/categories/{kind}/{name}.
func (s *Server) CategoryRecords(w http.ResponseWriter, r *http.Request) {
	kind := pathParam(r, "kind")
	name := pathParam(r, "name")

	records, err := s.categories.Records(kind, name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// HealthCheck handles GET /health. The probe reports capabilities and never
// fails on a provider outage.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Check(r.Context()))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// pathParam returns a URL-decoded route parameter. Category names contain
// spaces and accents, which arrive percent-encoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, message)
		return true
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
