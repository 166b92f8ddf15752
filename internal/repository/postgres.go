package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"timecapsule-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore opens a connection pool and verifies it with a ping.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	log.Println("PostgreSQL connection pool established.")
	return &PostgresStore{db: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// RunMigrations executes the given migration SQL.
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	_, err := s.db.Exec(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	return nil
}

// --- UserStore ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	sql := `
        INSERT INTO users (id, username, password_hash, created_at)
        VALUES ($1, $2, $3, $4)`

	_, err := s.db.Exec(ctx, sql,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by username: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	sql := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE id = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by ID: %w", err)
	}
	return user, nil
}

// --- CapsuleStore ---

func (s *PostgresStore) CreateCapsule(ctx context.Context, capsule *models.Capsule) error {
	sql := `
        INSERT INTO capsules (id, user_id, message, unlock_at, unlock_code, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, sql,
		capsule.ID,
		capsule.UserID,
		capsule.Message,
		capsule.UnlockAt,
		capsule.UnlockCode,
		capsule.IsActive,
		capsule.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create capsule: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCapsuleByID(ctx context.Context, id uuid.UUID) (*models.Capsule, error) {
	sql := `
        SELECT id, user_id, message, unlock_at, unlock_code, is_active, created_at
        FROM capsules
        WHERE id = $1`

	return s.scanCapsule(s.db.QueryRow(ctx, sql, id))
}

func (s *PostgresStore) GetCapsuleByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Capsule, error) {
	sql := `
        SELECT id, user_id, message, unlock_at, unlock_code, is_active, created_at
        FROM capsules
        WHERE id = $1 AND user_id = $2`

	return s.scanCapsule(s.db.QueryRow(ctx, sql, id, ownerID))
}

func (s *PostgresStore) scanCapsule(row pgx.Row) (*models.Capsule, error) {
	capsule := &models.Capsule{}
	err := row.Scan(
		&capsule.ID,
		&capsule.UserID,
		&capsule.Message,
		&capsule.UnlockAt,
		&capsule.UnlockCode,
		&capsule.IsActive,
		&capsule.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch capsule: %w", err)
	}
	return capsule, nil
}

func (s *PostgresStore) ListCapsulesByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Capsule, error) {
	sql := `
        SELECT id, user_id, message, unlock_at, unlock_code, is_active, created_at
        FROM capsules
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, sql, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list capsules: %w", err)
	}
	defer rows.Close()

	// Initialize as empty slice, not nil, for JSON consistency.
	capsules := []*models.Capsule{}

	for rows.Next() {
		capsule := &models.Capsule{}
		err := rows.Scan(
			&capsule.ID,
			&capsule.UserID,
			&capsule.Message,
			&capsule.UnlockAt,
			&capsule.UnlockCode,
			&capsule.IsActive,
			&capsule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capsule row: %w", err)
		}
		capsules = append(capsules, capsule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over capsules: %w", err)
	}

	return capsules, nil
}

func (s *PostgresStore) CountCapsulesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	sql := `SELECT COUNT(*) FROM capsules WHERE user_id = $1`

	var count int
	if err := s.db.QueryRow(ctx, sql, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count capsules: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) UpdateCapsule(ctx context.Context, capsule *models.Capsule) error {
	sql := `
        UPDATE capsules
        SET message = $2, unlock_at = $3
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql, capsule.ID, capsule.Message, capsule.UnlockAt)
	if err != nil {
		return fmt.Errorf("failed to update capsule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCapsule(ctx context.Context, id uuid.UUID) error {
	sql := `DELETE FROM capsules WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete capsule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
