package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered learner together with their progress record
type User struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Never serialize
	CreatedAt    time.Time      `json:"createdAt"`
	Progress     ProgressRecord `json:"-"`
}

// UserResponse is the public shape of a user; it carries no credential field
type UserResponse struct {
	ID                   uuid.UUID             `json:"id"`
	Username             string                `json:"username"`
	Email                string                `json:"email"`
	GameProgress         GameProgress          `json:"gameProgress"`
	CareerRecommendation *CareerRecommendation `json:"careerRecommendation,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// NewUserResponse builds the public view of a user
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		GameProgress:         u.Progress.GameProgress,
		CareerRecommendation: u.Progress.Recommendation,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.Progress.UpdatedAt,
	}
}
