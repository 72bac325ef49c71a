package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/models"
)

// MemoryRepository implements Repository in process memory.
// Records are copied on the way in and out so callers never share slices with the store.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*models.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[uuid.UUID]*models.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

// CreateUser stores a new user with its initial progress record
func (r *MemoryRepository) CreateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return fmt.Errorf("%w: email", ErrDuplicate)
	}
	if _, taken := r.byUsername[u.Username]; taken {
		return fmt.Errorf("%w: username", ErrDuplicate)
	}

	stored := copyUser(u)
	stored.Progress.UserID = u.ID
	r.users[u.ID] = stored
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	return nil
}

// GetUser returns a copy of the user with the given ID
func (r *MemoryRepository) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

// GetUserByEmail returns a copy of the user registered with email
func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(r.users[id]), nil
}

// GetProgress returns a copy of the user's progress record
func (r *MemoryRepository) GetProgress(_ context.Context, userID uuid.UUID) (models.ProgressRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return models.ProgressRecord{}, ErrNotFound
	}
	return u.Progress.Clone(), nil
}

// UpdateProgress replaces the progress record when its version still matches
func (r *MemoryRepository) UpdateProgress(_ context.Context, userID uuid.UUID, expectedVersion int64, rec models.ProgressRecord) (models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return models.ProgressRecord{}, ErrNotFound
	}
	if u.Progress.Version != expectedVersion {
		return models.ProgressRecord{}, fmt.Errorf("%w: expected version %d, have %d", ErrConflict, expectedVersion, u.Progress.Version)
	}

	next := rec.Clone()
	next.UserID = userID
	next.Version = expectedVersion + 1
	u.Progress = next
	return next.Clone(), nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Progress = u.Progress.Clone()
	return &c
}
