package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/models"
)

// userID returns the authenticated caller or writes a 401
func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing_token", "authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// Progress handlers

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	resp, err := s.service.Profile(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load profile", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	resp, err := s.service.Scores(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load scores", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.ProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.SubmitProgress(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "update progress", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCareerGuidance(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.GuidanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.CareerGuidance(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "compute career guidance", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.CheckpointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.RecordCheckpoint(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "record checkpoint", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.AchievementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.GrantAchievement(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "grant achievement", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
