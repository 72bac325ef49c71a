package models

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProgressRequest represents a progress submission.
// Score and CurrentDomain are optional; nil leaves the stored value alone.
type ProgressRequest struct {
	Score          *int     `json:"score"`
	CompletedPaths []string `json:"completedPaths"`
	CurrentDomain  *string  `json:"currentDomain"`
	Achievements   []string `json:"achievements"`
}

// GuidanceRequest represents a career-guidance request
type GuidanceRequest struct {
	SkillPoints  map[string]int `json:"skillPoints"`
	CheckpointID string         `json:"checkpointId,omitempty"`
	PathID       string         `json:"pathId,omitempty"`
}

// CheckpointRequest represents a direct checkpoint completion
type CheckpointRequest struct {
	PathID       string `json:"pathId"`
	CheckpointID string `json:"checkpointId"`
}

// AchievementRequest represents an achievement grant
type AchievementRequest struct {
	AchievementID string `json:"achievementId"`
	Domain        string `json:"domain,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProgressResponse is returned after a progress submission
type ProgressResponse struct {
	GameProgress GameProgress `json:"gameProgress"`
}

// GuidanceResponse is returned by the career-guidance endpoint
type GuidanceResponse struct {
	Path           Domain         `json:"path"`
	Level          Tier           `json:"level"`
	Recommendation string         `json:"recommendation"`
	Skills         []string       `json:"skills"`
	Description    string         `json:"description"`
	SuccessStories []SuccessStory `json:"successStories"`
	Preparation    Preparation    `json:"preparation"`
	SkillLevels    SkillLevels    `json:"skillLevels"`
	GameProgress   GameProgress   `json:"gameProgress"`
}

// CheckpointResponse is returned after a direct checkpoint completion
type CheckpointResponse struct {
	AlreadyRecorded      bool                  `json:"alreadyRecorded"`
	DomainScore          int                   `json:"domainScore"`
	GameProgress         GameProgress          `json:"gameProgress"`
	CareerRecommendation *CareerRecommendation `json:"careerRecommendation,omitempty"`
}

// AchievementsResponse is returned after an achievement grant
type AchievementsResponse struct {
	Granted      bool     `json:"granted"`
	Achievements []string `json:"achievements"`
}

// DomainSummary is the per-domain recommendation shown on the profile
type DomainSummary struct {
	Score          int     `json:"score"`
	Level          Tier    `json:"level"`
	Recommendation string  `json:"recommendation"`
	SkillLevel     float64 `json:"skillLevel"`
	Completed      bool    `json:"completed"`
}

// ProfileUser is a user plus freshly computed recommendations
type ProfileUser struct {
	UserResponse
	Recommendations map[Domain]DomainSummary `json:"recommendations"`
}

// ProfileResponse is returned by the profile endpoint
type ProfileResponse struct {
	User ProfileUser `json:"user"`
}

// ScoresResponse reports the overall score and every domain's ledger score
type ScoresResponse struct {
	Overall int            `json:"overall"`
	Domains map[Domain]int `json:"domains"`
}
