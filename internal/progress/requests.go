package progress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terra-clan/career-engine/internal/career"
	"github.com/terra-clan/career-engine/internal/models"
)

// Requests carry domains as strings so that unknown values surface as
// models.ErrUnknownDomain instead of decode failures.

func parseDomain(field, value string) (models.Domain, error) {
	if strings.TrimSpace(value) == "" {
		return models.NoDomain, models.NewValidationError(field, "is required")
	}
	d, err := models.ParseDomain(value)
	if err != nil {
		return models.NoDomain, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func progressEvent(req models.ProgressRequest) (career.ProgressSubmitted, error) {
	ev := career.ProgressSubmitted{Score: req.Score, Achievements: req.Achievements}

	for _, raw := range req.CompletedPaths {
		d, err := parseDomain("completedPaths", raw)
		if err != nil {
			return career.ProgressSubmitted{}, err
		}
		ev.CompletedPaths = append(ev.CompletedPaths, d)
	}

	if req.CurrentDomain != nil {
		current := models.NoDomain
		if strings.TrimSpace(*req.CurrentDomain) != "" {
			d, err := parseDomain("currentDomain", *req.CurrentDomain)
			if err != nil {
				return career.ProgressSubmitted{}, err
			}
			current = d
		}
		ev.CurrentDomain = &current
	}

	return ev, nil
}

func guidanceEvent(req models.GuidanceRequest) (career.GuidanceRequested, error) {
	if len(req.SkillPoints) == 0 {
		return career.GuidanceRequested{}, career.ErrEmptyInput
	}

	points := make(map[models.Domain]int, len(req.SkillPoints))
	for raw, p := range req.SkillPoints {
		d, err := parseDomain("skillPoints", raw)
		if err != nil {
			return career.GuidanceRequested{}, err
		}
		if _, dup := points[d]; dup {
			return career.GuidanceRequested{}, models.NewValidationError("skillPoints", fmt.Sprintf("%s given twice", d))
		}
		points[d] = p
	}

	ev := career.GuidanceRequested{SkillPoints: points, CheckpointID: strings.TrimSpace(req.CheckpointID)}
	if strings.TrimSpace(req.PathID) != "" {
		d, err := parseDomain("pathId", req.PathID)
		if err != nil {
			return career.GuidanceRequested{}, err
		}
		ev.PathID = d
	}
	return ev, nil
}

func checkpointEvent(req models.CheckpointRequest) (career.CheckpointCompleted, error) {
	d, err := parseDomain("pathId", req.PathID)
	if err != nil {
		return career.CheckpointCompleted{}, err
	}
	id := strings.TrimSpace(req.CheckpointID)
	if id == "" {
		return career.CheckpointCompleted{}, models.NewValidationError("checkpointId", "is required")
	}
	return career.CheckpointCompleted{Domain: d, CheckpointID: id}, nil
}

func achievementEvent(req models.AchievementRequest) (career.AchievementGranted, error) {
	tag := strings.TrimSpace(req.AchievementID)
	if tag == "" {
		return career.AchievementGranted{}, models.NewValidationError("achievementId", "is required")
	}
	ev := career.AchievementGranted{Tag: tag}
	if strings.TrimSpace(req.Domain) != "" {
		d, err := parseDomain("domain", req.Domain)
		if err != nil {
			return career.AchievementGranted{}, err
		}
		ev.Domain = d
	}
	return ev, nil
}

// IsInvariantViolation reports whether err rejects a value outside the closed vocabularies
func IsInvariantViolation(err error) bool {
	return errors.Is(err, models.ErrUnknownDomain) ||
		errors.Is(err, career.ErrInvalidCheckpoint) ||
		errors.Is(err, career.ErrUnknownAchievement) ||
		errors.Is(err, career.ErrEmptyInput) ||
		errors.Is(err, career.ErrNegativePoints)
}
