package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-clan/career-engine/internal/auth"
	"github.com/terra-clan/career-engine/internal/metrics"
	"github.com/terra-clan/career-engine/internal/models"
	"github.com/terra-clan/career-engine/internal/storage"
	"github.com/terra-clan/career-engine/internal/storage/mocks"
)

type recordingPublisher struct {
	published []models.ProgressRecord
}

func (p *recordingPublisher) Publish(rec models.ProgressRecord) {
	p.published = append(p.published, rec)
}

func newMockedService(t *testing.T, opts ...Option) (*Service, *mocks.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(
		repo,
		newEngine(t),
		auth.NewTokenService(testSecret, "career-engine", time.Hour),
		auth.NewHasher(bcrypt.MinCost),
		opts...,
	)
	return svc, repo
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	m := metrics.New()
	pub := &recordingPublisher{}
	svc, repo := newMockedService(t, WithMetrics(m), WithPublisher(pub))
	userID := uuid.New()

	stale := models.NewProgressRecord(userID, time.Now())
	fresh := stale.Clone()
	fresh.Version = 1

	gomock.InOrder(
		repo.EXPECT().GetProgress(gomock.Any(), userID).Return(stale, nil),
		repo.EXPECT().UpdateProgress(gomock.Any(), userID, int64(0), gomock.Any()).Return(models.ProgressRecord{}, storage.ErrConflict),
		repo.EXPECT().GetProgress(gomock.Any(), userID).Return(fresh, nil),
		repo.EXPECT().UpdateProgress(gomock.Any(), userID, int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, expected int64, rec models.ProgressRecord) (models.ProgressRecord, error) {
				rec.Version = expected + 1
				return rec, nil
			}),
	)

	resp, err := svc.RecordCheckpoint(context.Background(), userID, models.CheckpointRequest{PathID: "ECE", CheckpointID: "ece1"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.DomainScore)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConflictRetries))
	require.Len(t, pub.published, 1)
	assert.Equal(t, int64(2), pub.published[0].Version)
}

func TestUpdateGivesUpAfterRetries(t *testing.T) {
	svc, repo := newMockedService(t, WithRetries(2))
	userID := uuid.New()
	rec := models.NewProgressRecord(userID, time.Now())

	repo.EXPECT().GetProgress(gomock.Any(), userID).Return(rec, nil).Times(2)
	repo.EXPECT().UpdateProgress(gomock.Any(), userID, int64(0), gomock.Any()).Return(models.ProgressRecord{}, storage.ErrConflict).Times(2)

	_, err := svc.SubmitProgress(context.Background(), userID, models.ProgressRequest{Score: intPtr(5)})
	require.ErrorIs(t, err, storage.ErrUnavailable)
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestStoreFailureIsNotReportedAsSuccess(t *testing.T) {
	pub := &recordingPublisher{}
	svc, repo := newMockedService(t, WithPublisher(pub))
	userID := uuid.New()
	rec := models.NewProgressRecord(userID, time.Now())
	down := errors.Join(storage.ErrUnavailable, errors.New("connection refused"))

	repo.EXPECT().GetProgress(gomock.Any(), userID).Return(rec, nil)
	repo.EXPECT().UpdateProgress(gomock.Any(), userID, int64(0), gomock.Any()).Return(models.ProgressRecord{}, down)

	_, err := svc.GrantAchievement(context.Background(), userID, models.AchievementRequest{AchievementID: "js_ninja"})
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Empty(t, pub.published)
}

func TestStoreReadFailure(t *testing.T) {
	svc, repo := newMockedService(t)
	userID := uuid.New()

	repo.EXPECT().GetProgress(gomock.Any(), userID).Return(models.ProgressRecord{}, storage.ErrUnavailable)

	_, err := svc.CareerGuidance(context.Background(), userID, models.GuidanceRequest{SkillPoints: map[string]int{"ECE": 3}})
	require.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestInvalidInputNeverTouchesStore(t *testing.T) {
	svc, _ := newMockedService(t)
	userID := uuid.New()

	_, err := svc.CareerGuidance(context.Background(), userID, models.GuidanceRequest{SkillPoints: map[string]int{"Robotics": 3}})
	require.ErrorIs(t, err, models.ErrUnknownDomain)

	_, err = svc.RecordCheckpoint(context.Background(), userID, models.CheckpointRequest{CheckpointID: "fs1"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLockTimeoutIsUnavailable(t *testing.T) {
	svc, _ := newMockedService(t, WithLocker(blockedLocker{}))

	_, err := svc.SubmitProgress(context.Background(), uuid.New(), models.ProgressRequest{Score: intPtr(1)})
	require.ErrorIs(t, err, storage.ErrUnavailable)
}

type blockedLocker struct{}

func (blockedLocker) Lock(context.Context, string) (func(), error) {
	return nil, errors.New("lock not acquired")
}
