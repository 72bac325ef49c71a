package career

import (
	"fmt"

	"github.com/terra-clan/career-engine/internal/models"
)

// DominantDomain selects the domain with the strictly greatest score.
// Exact ties go to the domain that comes first in models.Domains.
func DominantDomain(points map[models.Domain]int) (models.Domain, error) {
	if len(points) == 0 {
		return models.NoDomain, ErrEmptyInput
	}
	for d := range points {
		if !d.Valid() {
			return models.NoDomain, fmt.Errorf("%w: %d", models.ErrUnknownDomain, d)
		}
	}

	best := models.NoDomain
	bestScore := 0
	for _, d := range models.Domains {
		score, ok := points[d]
		if !ok {
			continue
		}
		if best == models.NoDomain || score > bestScore {
			best, bestScore = d, score
		}
	}
	return best, nil
}
