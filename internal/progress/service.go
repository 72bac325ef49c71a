// Package progress orchestrates every operation on a user's progress record:
// it takes the user's lock, loads the record, applies one event through the
// career engine, persists with a version check and publishes the result.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/auth"
	"github.com/terra-clan/career-engine/internal/career"
	"github.com/terra-clan/career-engine/internal/locks"
	"github.com/terra-clan/career-engine/internal/metrics"
	"github.com/terra-clan/career-engine/internal/models"
	"github.com/terra-clan/career-engine/internal/storage"
)

const defaultRetries = 3

// Publisher receives every persisted progress record
type Publisher interface {
	Publish(rec models.ProgressRecord)
}

// Service implements the progress and account operations
type Service struct {
	repo    storage.Repository
	engine  *career.Engine
	tokens  *auth.TokenService
	hasher  *auth.Hasher
	locker  locks.Locker
	pub     Publisher
	metrics *metrics.Metrics
	retries int
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithLocker sets the per-user locker (default: in-process)
func WithLocker(l locks.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithPublisher sets where persisted records are published
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.pub = p
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRetries sets how many times an update is attempted on version conflicts
func WithRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retries = n
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a progress service
func NewService(repo storage.Repository, engine *career.Engine, tokens *auth.TokenService, hasher *auth.Hasher, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		engine:  engine,
		tokens:  tokens,
		hasher:  hasher,
		locker:  locks.NewLocalLocker(),
		retries: defaultRetries,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update runs one event against the user's record.
// Unchanged outcomes are not written; conflicts are retried up to s.retries times.
func (s *Service) update(ctx context.Context, userID uuid.UUID, kind string, ev career.Event) (models.ProgressRecord, career.Outcome, error) {
	unlock, err := s.locker.Lock(ctx, userID.String())
	if err != nil {
		return models.ProgressRecord{}, career.Outcome{}, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		rec, err := s.repo.GetProgress(ctx, userID)
		if err != nil {
			return models.ProgressRecord{}, career.Outcome{}, err
		}

		next, out, err := s.engine.Apply(rec, ev, s.now())
		if err != nil {
			s.observeEvent(kind, "rejected")
			return models.ProgressRecord{}, career.Outcome{}, err
		}
		if !out.Changed {
			s.observeEvent(kind, "unchanged")
			slog.Debug("progress unchanged", "user_id", userID, "event", kind)
			return rec, out, nil
		}

		saved, err := s.repo.UpdateProgress(ctx, userID, rec.Version, next)
		if err == nil {
			s.observeEvent(kind, "changed")
			slog.Info("progress updated", "user_id", userID, "event", kind, "version", saved.Version)
			if s.pub != nil {
				s.pub.Publish(saved)
			}
			return saved, out, nil
		}

		if !errors.Is(err, storage.ErrConflict) {
			slog.Error("failed to persist progress", "user_id", userID, "event", kind, "error", err)
			return models.ProgressRecord{}, career.Outcome{}, err
		}
		if attempt >= s.retries {
			slog.Error("progress update kept conflicting", "user_id", userID, "event", kind, "attempts", attempt)
			return models.ProgressRecord{}, career.Outcome{}, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}

		slog.Debug("retrying progress update after conflict", "user_id", userID, "attempt", attempt)
		if s.metrics != nil {
			s.metrics.ConflictRetries.Inc()
		}
	}
}

func (s *Service) observeEvent(kind, result string) {
	if s.metrics != nil {
		s.metrics.ObserveEvent(kind, result)
	}
}
