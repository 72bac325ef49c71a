package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/career-engine/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser inserts a user and its initial progress record in one transaction
func (r *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	progressJSON, recommendationJSON, err := marshalProgress(u.Progress)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
		return unavailable("create user", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO progress (user_id, version, game_progress, career_recommendation, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Progress.Version, progressJSON, recommendationJSON, u.Progress.UpdatedAt)
	if err != nil {
		return unavailable("create progress", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable("commit user", err)
	}
	return nil
}

// GetUser retrieves a user and its progress by ID
func (r *PostgresRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getUser(ctx, "u.id", id)
}

// GetUserByEmail retrieves a user and its progress by email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "u.email", email)
}

func (r *PostgresRepository) getUser(ctx context.Context, field string, value any) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at,
		       p.version, p.game_progress, p.career_recommendation, p.updated_at
		FROM users u
		JOIN progress p ON p.user_id = u.id
		WHERE %s = $1
	`, field)

	var u models.User
	var progressJSON, recommendationJSON []byte

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.Progress.Version,
		&progressJSON,
		&recommendationJSON,
		&u.Progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get user", err)
	}

	u.Progress.UserID = u.ID
	if err := unmarshalProgress(&u.Progress, progressJSON, recommendationJSON); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProgress retrieves the progress record of a user
func (r *PostgresRepository) GetProgress(ctx context.Context, userID uuid.UUID) (models.ProgressRecord, error) {
	rec := models.ProgressRecord{UserID: userID}
	var progressJSON, recommendationJSON []byte

	err := r.pool.QueryRow(ctx, `
		SELECT version, game_progress, career_recommendation, updated_at
		FROM progress
		WHERE user_id = $1
	`, userID).Scan(&rec.Version, &progressJSON, &recommendationJSON, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ProgressRecord{}, ErrNotFound
		}
		return models.ProgressRecord{}, unavailable("get progress", err)
	}

	if err := unmarshalProgress(&rec, progressJSON, recommendationJSON); err != nil {
		return models.ProgressRecord{}, err
	}
	return rec, nil
}

// UpdateProgress replaces the progress record when its version still matches
func (r *PostgresRepository) UpdateProgress(ctx context.Context, userID uuid.UUID, expectedVersion int64, rec models.ProgressRecord) (models.ProgressRecord, error) {
	progressJSON, recommendationJSON, err := marshalProgress(rec)
	if err != nil {
		return models.ProgressRecord{}, err
	}

	var version int64
	err = r.pool.QueryRow(ctx, `
		UPDATE progress
		SET version = version + 1, game_progress = $3, career_recommendation = $4, updated_at = $5
		WHERE user_id = $1 AND version = $2
		RETURNING version
	`, userID, expectedVersion, progressJSON, recommendationJSON, rec.UpdatedAt).Scan(&version)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.ProgressRecord{}, unavailable("update progress", err)
		}

		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM progress WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return models.ProgressRecord{}, unavailable("update progress", err)
		}
		if !exists {
			return models.ProgressRecord{}, ErrNotFound
		}
		return models.ProgressRecord{}, fmt.Errorf("%w: expected version %d", ErrConflict, expectedVersion)
	}

	rec.UserID = userID
	rec.Version = version
	return rec, nil
}

func marshalProgress(rec models.ProgressRecord) ([]byte, []byte, error) {
	progressJSON, err := json.Marshal(rec.GameProgress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal game progress: %w", err)
	}

	var recommendationJSON []byte
	if rec.Recommendation != nil {
		recommendationJSON, err = json.Marshal(rec.Recommendation)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal recommendation: %w", err)
		}
	}
	return progressJSON, recommendationJSON, nil
}

func unmarshalProgress(rec *models.ProgressRecord, progressJSON, recommendationJSON []byte) error {
	if err := json.Unmarshal(progressJSON, &rec.GameProgress); err != nil {
		return fmt.Errorf("failed to unmarshal game progress: %w", err)
	}
	if recommendationJSON != nil {
		rec.Recommendation = &models.CareerRecommendation{}
		if err := json.Unmarshal(recommendationJSON, rec.Recommendation); err != nil {
			return fmt.Errorf("failed to unmarshal recommendation: %w", err)
		}
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, ErrUnavailable, err)
}
