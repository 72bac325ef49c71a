package career

import (
	"maps"
	"time"

	"github.com/terra-clan/career-engine/internal/models"
)

// Event is a change to a single user's progress record
type Event interface {
	apply(e *Engine, rec *models.ProgressRecord, now time.Time) (Outcome, error)
}

// CheckpointCompleted records one answered checkpoint at its catalog value and
// recomputes the recommendation from ledger scores.
type CheckpointCompleted struct {
	Domain       models.Domain
	CheckpointID string
}

func (ev CheckpointCompleted) apply(e *Engine, rec *models.ProgressRecord, now time.Time) (Outcome, error) {
	already, err := e.completeCheckpoint(rec, ev.Domain, ev.CheckpointID, now)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		AlreadyRecorded: already,
		DomainScore:     DomainScore(rec, ev.Domain),
		Recommendation:  rec.Recommendation,
	}
	if already {
		return out, nil
	}

	scores := DomainScores(rec)
	recommendation, err := e.Recommendation(scores)
	if err != nil {
		return Outcome{}, err
	}
	raiseScore(rec, scores[recommendation.Path])
	rec.Recommendation = recommendation

	out.Changed = true
	out.Recommendation = recommendation
	return out, nil
}

// ProgressSubmitted merges a client progress snapshot. The score is maxed,
// paths and achievements are unioned, and the current domain is replaced.
type ProgressSubmitted struct {
	Score          *int
	CompletedPaths []models.Domain
	CurrentDomain  *models.Domain
	Achievements   []string
}

func (ev ProgressSubmitted) apply(e *Engine, rec *models.ProgressRecord, _ time.Time) (Outcome, error) {
	if ev.Score != nil && *ev.Score < 0 {
		return Outcome{}, models.NewValidationError("score", "must not be negative")
	}
	for _, d := range ev.CompletedPaths {
		if !d.Valid() {
			return Outcome{}, models.ErrUnknownDomain
		}
	}
	if ev.CurrentDomain != nil && *ev.CurrentDomain != models.NoDomain && !ev.CurrentDomain.Valid() {
		return Outcome{}, models.ErrUnknownDomain
	}
	for _, tag := range ev.Achievements {
		if err := e.ValidateAchievement(tag, models.NoDomain); err != nil {
			return Outcome{}, err
		}
	}

	var out Outcome
	if ev.Score != nil && raiseScore(rec, *ev.Score) {
		out.Changed = true
	}
	if ev.CurrentDomain != nil && rec.GameProgress.CurrentDomain != *ev.CurrentDomain {
		rec.GameProgress.CurrentDomain = *ev.CurrentDomain
		out.Changed = true
	}
	for _, d := range ev.CompletedPaths {
		if addPath(rec, d) {
			out.Changed = true
		}
	}
	for _, tag := range ev.Achievements {
		if addAchievement(rec, tag) {
			out.Changed = true
		}
	}
	out.Recommendation = rec.Recommendation
	return out, nil
}

// GuidanceRequested classifies a submitted points map, optionally recording the
// checkpoint that triggered it, and stores the resulting recommendation.
type GuidanceRequested struct {
	SkillPoints  map[models.Domain]int
	CheckpointID string
	PathID       models.Domain
}

func (ev GuidanceRequested) apply(e *Engine, rec *models.ProgressRecord, now time.Time) (Outcome, error) {
	if len(ev.SkillPoints) == 0 {
		return Outcome{}, ErrEmptyInput
	}
	for _, p := range ev.SkillPoints {
		if p < 0 {
			return Outcome{}, ErrNegativePoints
		}
	}

	hasCheckpoint := ev.CheckpointID != ""
	hasPath := ev.PathID != models.NoDomain
	if hasCheckpoint != hasPath {
		return Outcome{}, models.NewValidationError("checkpointId", "checkpointId and pathId must be given together")
	}

	var out Outcome
	if hasCheckpoint {
		already, err := e.completeCheckpoint(rec, ev.PathID, ev.CheckpointID, now)
		if err != nil {
			return Outcome{}, err
		}
		out.AlreadyRecorded = already
		out.Changed = !already
	}

	recommendation, err := e.Recommendation(ev.SkillPoints)
	if err != nil {
		return Outcome{}, err
	}
	if raiseScore(rec, ev.SkillPoints[recommendation.Path]) {
		out.Changed = true
	}
	if addPath(rec, recommendation.Path) {
		out.Changed = true
	}
	if sameRecommendation(rec.Recommendation, recommendation) {
		recommendation = rec.Recommendation
	} else {
		rec.Recommendation = recommendation
		out.Changed = true
	}

	out.DomainScore = ev.SkillPoints[recommendation.Path]
	out.Recommendation = recommendation
	return out, nil
}

// AchievementGranted adds one badge to the achievement set
type AchievementGranted struct {
	Tag    string
	Domain models.Domain
}

func (ev AchievementGranted) apply(e *Engine, rec *models.ProgressRecord, _ time.Time) (Outcome, error) {
	granted, err := e.Grant(rec, ev.Tag, ev.Domain)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Changed: granted, Granted: granted, Recommendation: rec.Recommendation}, nil
}

func sameRecommendation(a, b *models.CareerRecommendation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Path == b.Path &&
		a.Level == b.Level &&
		a.Recommendation == b.Recommendation &&
		maps.Equal(a.SkillLevels, b.SkillLevels)
}
