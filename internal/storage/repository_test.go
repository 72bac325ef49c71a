package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/terra-clan/career-engine/internal/models"
)

// RepositorySuite runs the same behaviour checks against every Repository implementation
type RepositorySuite struct {
	suite.Suite
	newRepo func() Repository
	repo    Repository
	ctx     context.Context
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo()
}

func newTestUser(name string) *models.User {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:           id,
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		Progress:     models.NewProgressRecord(id, now),
	}
}

func (s *RepositorySuite) TestCreateAndGetUser() {
	u := newTestUser("ada")
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	got, err := s.repo.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Username, got.Username)
	s.Equal(u.Email, got.Email)
	s.Equal("hash", got.PasswordHash)
	s.Equal(int64(0), got.Progress.Version)
	s.Equal(u.ID, got.Progress.UserID)
	s.Empty(got.Progress.GameProgress.Checkpoints)

	byEmail, err := s.repo.GetUserByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
}

func (s *RepositorySuite) TestCreateUserDuplicate() {
	s.Require().NoError(s.repo.CreateUser(s.ctx, newTestUser("grace")))

	sameEmail := newTestUser("grace2")
	sameEmail.Email = "grace@example.com"
	s.ErrorIs(s.repo.CreateUser(s.ctx, sameEmail), ErrDuplicate)

	sameName := newTestUser("grace")
	sameName.Email = "other@example.com"
	s.ErrorIs(s.repo.CreateUser(s.ctx, sameName), ErrDuplicate)

	_, err := s.repo.GetUser(s.ctx, sameEmail.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestGetMissing() {
	_, err := s.repo.GetUser(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetProgress(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.UpdateProgress(s.ctx, uuid.New(), 0, models.ProgressRecord{})
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestUpdateProgressRoundTrip() {
	u := newTestUser("linus")
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	rec, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)

	rec.GameProgress.Score = 25
	rec.GameProgress.CurrentDomain = models.AiMl
	rec.GameProgress.CompletedPaths = append(rec.GameProgress.CompletedPaths, models.FullStack)
	rec.GameProgress.Achievements = append(rec.GameProgress.Achievements, "html_master")
	rec.GameProgress.Checkpoints = append(rec.GameProgress.Checkpoints, models.CheckpointEntry{
		PathID: models.FullStack, CheckpointID: "fs1", Score: 10, Completed: true,
		CompletedAt: time.Now().UTC().Truncate(time.Millisecond),
	})
	rec.Recommendation = &models.CareerRecommendation{
		Path:           models.FullStack,
		Level:          models.TierSenior,
		Recommendation: "Senior Full Stack Developer",
		SkillLevels:    models.SkillLevels{models.FullStack: 83.33, models.AiMl: 60, models.Ece: 16.67},
	}

	saved, err := s.repo.UpdateProgress(s.ctx, u.ID, rec.Version, rec)
	s.Require().NoError(err)
	s.Equal(int64(1), saved.Version)

	got, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), got.Version)
	s.Equal(25, got.GameProgress.Score)
	s.Equal(models.AiMl, got.GameProgress.CurrentDomain)
	s.Equal([]models.Domain{models.FullStack}, got.GameProgress.CompletedPaths)
	s.Equal([]string{"html_master"}, got.GameProgress.Achievements)
	s.Require().Len(got.GameProgress.Checkpoints, 1)
	s.Equal("fs1", got.GameProgress.Checkpoints[0].CheckpointID)
	s.Require().NotNil(got.Recommendation)
	s.Equal("Senior Full Stack Developer", got.Recommendation.Recommendation)
	s.InDelta(60.0, got.Recommendation.SkillLevels[models.AiMl], 0.001)
}

func (s *RepositorySuite) TestUpdateProgressStaleVersion() {
	u := newTestUser("barbara")
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	rec, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)

	rec.GameProgress.Score = 10
	_, err = s.repo.UpdateProgress(s.ctx, u.ID, rec.Version, rec)
	s.Require().NoError(err)

	rec.GameProgress.Score = 5
	_, err = s.repo.UpdateProgress(s.ctx, u.ID, rec.Version, rec)
	s.ErrorIs(err, ErrConflict)

	got, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(10, got.GameProgress.Score)
}

func (s *RepositorySuite) TestConcurrentUpdatesOneWinnerPerVersion() {
	u := newTestUser("ken")
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			rec := models.NewProgressRecord(u.ID, time.Now())
			rec.GameProgress.Score = score
			_, err := s.repo.UpdateProgress(s.ctx, u.ID, 0, rec)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}(i + 1)
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(writers-1, conflicts)
}

func (s *RepositorySuite) TestReturnedRecordsAreCopies() {
	u := newTestUser("margaret")
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	rec, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)
	rec.GameProgress.Achievements = append(rec.GameProgress.Achievements, "css_guru")

	again, err := s.repo.GetProgress(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(again.GameProgress.Achievements)
}

func TestMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositorySuite{newRepo: func() Repository { return NewMemoryRepository() }})
}
