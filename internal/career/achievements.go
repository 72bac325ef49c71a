package career

import (
	"fmt"

	"github.com/terra-clan/career-engine/internal/models"
)

// ValidateAchievement checks that tag is in the vocabulary, and in domain's vocabulary when domain is set
func (e *Engine) ValidateAchievement(tag string, domain models.Domain) error {
	owner, ok := e.catalog.AchievementDomain(tag)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAchievement, tag)
	}
	if domain != models.NoDomain && owner != domain {
		return fmt.Errorf("%w: %q is not a %s achievement", ErrUnknownAchievement, tag, domain)
	}
	return nil
}

// Grant adds an achievement to the record. Granting a tag already present changes nothing.
func (e *Engine) Grant(rec *models.ProgressRecord, tag string, domain models.Domain) (bool, error) {
	if err := e.ValidateAchievement(tag, domain); err != nil {
		return false, err
	}
	return addAchievement(rec, tag), nil
}

func addAchievement(rec *models.ProgressRecord, tag string) bool {
	if rec.HasAchievement(tag) {
		return false
	}
	rec.GameProgress.Achievements = append(rec.GameProgress.Achievements, tag)
	return true
}
