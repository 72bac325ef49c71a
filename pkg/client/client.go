package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/terra-clan/career-engine/internal/models"
)

// Client is a Go SDK for the career-engine API
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer token sent with authenticated requests
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new career-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// Temporary reports whether the request may succeed when retried
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// Token returns the bearer token currently in use
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Register creates an account and keeps the returned token
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Login authenticates and keeps the returned token
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var result models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Profile retrieves the caller with freshly computed recommendations
func (c *Client) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	var result models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Scores retrieves the caller's overall and per-domain scores
func (c *Client) Scores(ctx context.Context) (*models.ScoresResponse, error) {
	var result models.ScoresResponse
	if err := c.do(ctx, http.MethodGet, "/api/scores", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitProgress merges a progress submission into the caller's record
func (c *Client) SubmitProgress(ctx context.Context, req models.ProgressRequest) (*models.ProgressResponse, error) {
	var result models.ProgressResponse
	if err := c.do(ctx, http.MethodPut, "/api/progress", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CareerGuidance classifies skill points into a recommendation
func (c *Client) CareerGuidance(ctx context.Context, req models.GuidanceRequest) (*models.GuidanceResponse, error) {
	var result models.GuidanceResponse
	if err := c.do(ctx, http.MethodPost, "/api/career-guidance", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordCheckpoint completes a checkpoint of a career path
func (c *Client) RecordCheckpoint(ctx context.Context, pathID, checkpointID string) (*models.CheckpointResponse, error) {
	var result models.CheckpointResponse
	req := models.CheckpointRequest{PathID: pathID, CheckpointID: checkpointID}
	if err := c.do(ctx, http.MethodPost, "/api/checkpoints", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GrantAchievement adds an achievement to the caller's record
func (c *Client) GrantAchievement(ctx context.Context, req models.AchievementRequest) (*models.AchievementsResponse, error) {
	var result models.AchievementsResponse
	if err := c.do(ctx, http.MethodPost, "/api/achievements", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CareerPaths retrieves the public catalog keyed by domain
func (c *Client) CareerPaths(ctx context.Context) (map[models.Domain]*models.CareerPath, error) {
	result := make(map[models.Domain]*models.CareerPath)
	if err := c.do(ctx, http.MethodGet, "/api/career-paths", nil, &result); err != nil {
		return nil, err
	}
	for d, p := range result {
		p.Domain = d
	}
	return result, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// do performs an HTTP request and decodes the JSON response into out
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = string(respBody)
		}
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
