package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// CheckpointEntry records one completed checkpoint in a user's ledger
type CheckpointEntry struct {
	PathID       Domain    `json:"pathId"`
	CheckpointID string    `json:"checkpointId"`
	Score        int       `json:"score"`
	Completed    bool      `json:"completed"`
	CompletedAt  time.Time `json:"completedAt"`
}

// GameProgress is the user-visible part of a progress record
type GameProgress struct {
	Score          int               `json:"score"`
	CompletedPaths []Domain          `json:"completedPaths"`
	CurrentDomain  Domain            `json:"currentDomain"`
	Achievements   []string          `json:"achievements"`
	Checkpoints    []CheckpointEntry `json:"checkpoints"`
}

// SkillLevels maps each domain to a completion percentage
type SkillLevels map[Domain]float64

// CareerRecommendation is derived from scores and never edited directly
type CareerRecommendation struct {
	Path           Domain      `json:"path"`
	Level          Tier        `json:"level"`
	Recommendation string      `json:"recommendation"`
	SkillLevels    SkillLevels `json:"skillLevels"`
}

// ProgressRecord is the durable per-user state.
// Version increases by one on every persisted change and guards concurrent writers.
type ProgressRecord struct {
	UserID         uuid.UUID             `json:"-"`
	Version        int64                 `json:"-"`
	GameProgress   GameProgress          `json:"gameProgress"`
	Recommendation *CareerRecommendation `json:"careerRecommendation,omitempty"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// NewProgressRecord returns the zeroed record created at registration
func NewProgressRecord(userID uuid.UUID, now time.Time) ProgressRecord {
	return ProgressRecord{
		UserID: userID,
		GameProgress: GameProgress{
			CompletedPaths: []Domain{},
			Achievements:   []string{},
			Checkpoints:    []CheckpointEntry{},
		},
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so reducers never alias the caller's slices
func (p ProgressRecord) Clone() ProgressRecord {
	out := p
	out.GameProgress.CompletedPaths = append([]Domain{}, p.GameProgress.CompletedPaths...)
	out.GameProgress.Achievements = append([]string{}, p.GameProgress.Achievements...)
	out.GameProgress.Checkpoints = append([]CheckpointEntry{}, p.GameProgress.Checkpoints...)
	if p.Recommendation != nil {
		rec := *p.Recommendation
		rec.SkillLevels = make(SkillLevels, len(p.Recommendation.SkillLevels))
		for d, v := range p.Recommendation.SkillLevels {
			rec.SkillLevels[d] = v
		}
		out.Recommendation = &rec
	}
	return out
}

// HasCheckpoint reports whether (domain, checkpointID) is already in the ledger
func (p *ProgressRecord) HasCheckpoint(domain Domain, checkpointID string) bool {
	return slices.ContainsFunc(p.GameProgress.Checkpoints, func(e CheckpointEntry) bool {
		return e.PathID == domain && e.CheckpointID == checkpointID
	})
}

// HasPath reports whether the domain is in the completed paths set
func (p *ProgressRecord) HasPath(domain Domain) bool {
	return slices.Contains(p.GameProgress.CompletedPaths, domain)
}

// HasAchievement reports whether the tag is already earned
func (p *ProgressRecord) HasAchievement(tag string) bool {
	return slices.Contains(p.GameProgress.Achievements, tag)
}
