package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/career"
	"github.com/terra-clan/career-engine/internal/models"
)

// Event kinds used for logging and metrics
const (
	eventProgress    = "progress"
	eventGuidance    = "guidance"
	eventCheckpoint  = "checkpoint"
	eventAchievement = "achievement"
)

// SubmitProgress merges a client progress snapshot into the user's record
func (s *Service) SubmitProgress(ctx context.Context, userID uuid.UUID, req models.ProgressRequest) (*models.ProgressResponse, error) {
	ev, err := progressEvent(req)
	if err != nil {
		return nil, err
	}

	rec, _, err := s.update(ctx, userID, eventProgress, ev)
	if err != nil {
		return nil, err
	}
	return &models.ProgressResponse{GameProgress: rec.GameProgress}, nil
}

// CareerGuidance classifies the submitted points, stores the recommendation and
// returns it together with the dominant domain's catalog details.
func (s *Service) CareerGuidance(ctx context.Context, userID uuid.UUID, req models.GuidanceRequest) (*models.GuidanceResponse, error) {
	ev, err := guidanceEvent(req)
	if err != nil {
		return nil, err
	}

	rec, out, err := s.update(ctx, userID, eventGuidance, ev)
	if err != nil {
		return nil, err
	}

	r := out.Recommendation
	path := s.engine.Catalog().Path(r.Path)
	if path == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownDomain, r.Path)
	}

	return &models.GuidanceResponse{
		Path:           r.Path,
		Level:          r.Level,
		Recommendation: r.Recommendation,
		Skills:         path.Skills,
		Description:    path.Description,
		SuccessStories: path.SuccessStories,
		Preparation:    path.Preparation,
		SkillLevels:    r.SkillLevels,
		GameProgress:   rec.GameProgress,
	}, nil
}

// RecordCheckpoint completes one checkpoint at its catalog value
func (s *Service) RecordCheckpoint(ctx context.Context, userID uuid.UUID, req models.CheckpointRequest) (*models.CheckpointResponse, error) {
	ev, err := checkpointEvent(req)
	if err != nil {
		return nil, err
	}

	rec, out, err := s.update(ctx, userID, eventCheckpoint, ev)
	if err != nil {
		return nil, err
	}

	return &models.CheckpointResponse{
		AlreadyRecorded:      out.AlreadyRecorded,
		DomainScore:          out.DomainScore,
		GameProgress:         rec.GameProgress,
		CareerRecommendation: rec.Recommendation,
	}, nil
}

// GrantAchievement adds a badge to the user's achievement set
func (s *Service) GrantAchievement(ctx context.Context, userID uuid.UUID, req models.AchievementRequest) (*models.AchievementsResponse, error) {
	ev, err := achievementEvent(req)
	if err != nil {
		return nil, err
	}

	rec, out, err := s.update(ctx, userID, eventAchievement, ev)
	if err != nil {
		return nil, err
	}
	return &models.AchievementsResponse{Granted: out.Granted, Achievements: rec.GameProgress.Achievements}, nil
}

// Profile returns the user with per-domain recommendations computed from the ledger
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.engine.Summaries(&user.Progress)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{User: models.ProfileUser{
		UserResponse:    models.NewUserResponse(user),
		Recommendations: summaries,
	}}, nil
}

// Scores returns the user's overall score and every domain's ledger score
func (s *Service) Scores(ctx context.Context, userID uuid.UUID) (*models.ScoresResponse, error) {
	rec, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.ScoresResponse{
		Overall: career.OverallScore(&rec),
		Domains: career.DomainScores(&rec),
	}, nil
}

// DomainScore returns the ledger score of one domain
func (s *Service) DomainScore(ctx context.Context, userID uuid.UUID, d models.Domain) (int, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", models.ErrUnknownDomain, d)
	}
	rec, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return 0, err
	}
	return career.DomainScore(&rec, d), nil
}

// OverallScore returns the user's overall score
func (s *Service) OverallScore(ctx context.Context, userID uuid.UUID) (int, error) {
	rec, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return 0, err
	}
	return career.OverallScore(&rec), nil
}

// Engine exposes the career engine backing the service
func (s *Service) Engine() *career.Engine {
	return s.engine
}
