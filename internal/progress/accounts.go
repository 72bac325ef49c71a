package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/models"
	"github.com/terra-clan/career-engine/internal/storage"
)

// Length limits; the maxima match the users table columns
const (
	minUsernameLength = 3
	maxUsernameLength = 64
	maxEmailLength    = 255
	minPasswordLength = 6
)

// Register creates a user with an empty progress record and signs them in
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, models.NewValidationError("username", fmt.Sprintf("must be at least %d characters", minUsernameLength))
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, models.NewValidationError("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	}
	if email == "" {
		return nil, models.NewValidationError("email", "is required")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return nil, models.NewValidationError("email", fmt.Sprintf("must be at most %d characters", maxEmailLength))
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, models.NewValidationError("email", "is not a valid address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, models.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		Progress:     models.NewProgressRecord(id, now),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("registration rejected, user exists", "username", username)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	slog.Info("user registered", "user_id", id)

	return &models.AuthResponse{Token: token, User: models.NewUserResponse(user)}, nil
}

// Login verifies an email/password pair and returns a fresh token
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, models.NewValidationError("email", "is required")
	}
	if req.Password == "" {
		return nil, models.NewValidationError("password", "is required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, s.hasher.Reject(req.Password)
		}
		return nil, err
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &models.AuthResponse{Token: token, User: models.NewUserResponse(user)}, nil
}

// Authenticate resolves a bearer token to the user it was issued for
func (s *Service) Authenticate(token string) (uuid.UUID, error) {
	return s.tokens.Validate(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
