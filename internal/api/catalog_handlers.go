package api

import (
	"net/http"

	"github.com/terra-clan/career-engine/internal/models"
)

// Catalog handlers

// handleCareerPaths returns every career path keyed by its domain name
func (s *Server) handleCareerPaths(w http.ResponseWriter, r *http.Request) {
	paths := s.catalog.Paths()

	result := make(map[models.Domain]*models.CareerPath, len(paths))
	for _, p := range paths {
		result[p.Domain] = p
	}

	respondJSON(w, http.StatusOK, result)
}
