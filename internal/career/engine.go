// Package career turns checkpoint answers into domain scores, a dominant domain
// and a career recommendation. Everything here is pure: operations take a
// ProgressRecord and return a new one, leaving persistence to the caller.
package career

import (
	"fmt"
	"time"

	"github.com/terra-clan/career-engine/internal/catalog"
	"github.com/terra-clan/career-engine/internal/models"
)

// Engine evaluates progress events against the domain catalog
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine backed by a loaded catalog
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Catalog returns the catalog the engine validates against
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Outcome describes what an applied event did
type Outcome struct {
	Changed         bool
	AlreadyRecorded bool
	Granted         bool
	DomainScore     int
	Recommendation  *models.CareerRecommendation
}

// Apply runs ev against a copy of rec. On error rec is returned untouched.
func (e *Engine) Apply(rec models.ProgressRecord, ev Event, now time.Time) (models.ProgressRecord, Outcome, error) {
	next := rec.Clone()
	out, err := ev.apply(e, &next, now)
	if err != nil {
		return rec, Outcome{}, err
	}
	if out.Changed {
		next.UpdatedAt = now
	}
	return next, out, nil
}

// SkillLevels computes the completion percentage of every domain for a points map.
// Domains absent from points report 0.
func (e *Engine) SkillLevels(points map[models.Domain]int) models.SkillLevels {
	levels := make(models.SkillLevels, len(models.Domains))
	for _, d := range models.Domains {
		levels[d] = SkillLevel(points[d], e.catalog.MaxPoints(d))
	}
	return levels
}

// Recommendation builds the full derived recommendation for a points map
func (e *Engine) Recommendation(points map[models.Domain]int) (*models.CareerRecommendation, error) {
	dominant, err := DominantDomain(points)
	if err != nil {
		return nil, err
	}
	r, err := Recommend(dominant, points[dominant])
	if err != nil {
		return nil, err
	}
	return &models.CareerRecommendation{
		Path:           dominant,
		Level:          r.Tier,
		Recommendation: r.Title,
		SkillLevels:    e.SkillLevels(points),
	}, nil
}

// Summaries returns the per-domain recommendation shown on a profile, from ledger scores
func (e *Engine) Summaries(rec *models.ProgressRecord) (map[models.Domain]models.DomainSummary, error) {
	out := make(map[models.Domain]models.DomainSummary, len(models.Domains))
	for _, d := range models.Domains {
		score := DomainScore(rec, d)
		r, err := Recommend(d, score)
		if err != nil {
			return nil, fmt.Errorf("recommend %s: %w", d, err)
		}
		out[d] = models.DomainSummary{
			Score:          score,
			Level:          r.Tier,
			Recommendation: r.Title,
			SkillLevel:     SkillLevel(score, e.catalog.MaxPoints(d)),
			Completed:      rec.HasPath(d),
		}
	}
	return out, nil
}
