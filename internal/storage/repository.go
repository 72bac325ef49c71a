package storage

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/models"
)

// Repository defines the interface for user and progress persistence
type Repository interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Progress
	GetProgress(ctx context.Context, userID uuid.UUID) (models.ProgressRecord, error)
	// UpdateProgress stores rec if the stored version still equals expectedVersion,
	// bumping the version by one. It returns ErrConflict otherwise.
	UpdateProgress(ctx context.Context, userID uuid.UUID, expectedVersion int64, rec models.ProgressRecord) (models.ProgressRecord, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
