package api

import (
	"net/http"

	"github.com/terra-clan/career-engine/internal/models"
)

// Account handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "log in", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
