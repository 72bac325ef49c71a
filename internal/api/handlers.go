package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/career-engine/internal/auth"
	"github.com/terra-clan/career-engine/internal/health"
	"github.com/terra-clan/career-engine/internal/models"
	"github.com/terra-clan/career-engine/internal/progress"
	"github.com/terra-clan/career-engine/internal/storage"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// retryAfterSeconds is advertised on 503 responses
const retryAfterSeconds = "1"

// Response helpers

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: code, Message: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// decodeJSON reads a JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "invalid_request", "request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps a service error onto its HTTP status and error code
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.Is(err, storage.ErrDuplicate):
		respondError(w, http.StatusBadRequest, "user_exists", "user already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "user not found")
	case progress.IsInvariantViolation(err):
		respondError(w, http.StatusUnprocessableEntity, "invariant_violation", err.Error())
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, storage.ErrConflict):
		slog.Warn("store unavailable", "op", op, "error", err, "path", r.URL.Path)
		w.Header().Set("Retry-After", retryAfterSeconds)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "progress store is temporarily unavailable")
	default:
		slog.Error("request failed", "op", op, "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+op)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.health.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	for name, err := range results {
		if err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	if !health.Healthy(results) {
		w.Header().Set("Retry-After", retryAfterSeconds)
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
