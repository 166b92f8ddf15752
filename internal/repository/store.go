package repository

import (
	"context"
	"errors"

	"timecapsule-backend/internal/models"

	"github.com/google/uuid"
)

// Sentinel errors returned by store implementations. The service layer maps
// these onto its own error taxonomy; stores never leak driver errors upward
// except wrapped as unexpected failures.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateCode     = errors.New("unlock code already exists")
)

// UserStore defines the persistence operations for users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CapsuleStore defines the persistence operations for capsules.
type CapsuleStore interface {
	CreateCapsule(ctx context.Context, capsule *models.Capsule) error
	GetCapsuleByID(ctx context.Context, id uuid.UUID) (*models.Capsule, error)
	// GetCapsuleByIDAndOwner returns ErrNotFound both when the capsule does
	// not exist and when it belongs to someone else, so callers cannot tell
	// the two apart.
	GetCapsuleByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Capsule, error)
	ListCapsulesByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Capsule, error)
	CountCapsulesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	UpdateCapsule(ctx context.Context, capsule *models.Capsule) error
	DeleteCapsule(ctx context.Context, id uuid.UUID) error
}

// Store aggregates all persistence interfaces, for dependency injection.
type Store interface {
	UserStore
	CapsuleStore
}
