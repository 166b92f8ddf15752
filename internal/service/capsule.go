package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"timecapsule-backend/internal/capsule"
	"timecapsule-backend/internal/models"
	"timecapsule-backend/internal/repository"

	"github.com/google/uuid"
)

// CapsuleService owns the capsule business rules: who may see or change a
// capsule, and in which lifecycle state. State itself is computed by the
// capsule package from wall-clock time on every call.
type CapsuleService struct {
	store repository.CapsuleStore
}

// NewCapsuleService creates a new capsule service.
func NewCapsuleService(store repository.CapsuleStore) *CapsuleService {
	return &CapsuleService{
		store: store,
	}
}

// Create stores a new capsule for the given owner and generates its unique
// unlock code. The unlock time is accepted as-is; a capsule may be created
// already unlocked.
func (s *CapsuleService) Create(ctx context.Context, ownerID uuid.UUID, message string, unlockAt time.Time) (*models.Capsule, error) {
	if message == "" || unlockAt.IsZero() {
		return nil, fmt.Errorf("%w: message and unlock time are required", ErrValidation)
	}

	c := &models.Capsule{
		ID:         uuid.New(),
		UserID:     ownerID,
		Message:    message,
		UnlockAt:   unlockAt,
		UnlockCode: uuid.New().String(),
		IsActive:   true,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateCapsule(ctx, c); err != nil {
		log.Printf("Error saving capsule to store: %v", err)
		return nil, fmt.Errorf("internal error while saving capsule")
	}

	return c, nil
}

// Get returns the full capsule record if the unlock code matches and the
// capsule is within its readable window. Ownership is deliberately not
// checked: possession of the code is the read capability.
func (s *CapsuleService) Get(ctx context.Context, id uuid.UUID, code string) (*models.Capsule, error) {
	if code == "" {
		return nil, ErrCodeRequired
	}

	c, err := s.store.GetCapsuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching capsule from store: %v", err)
		return nil, fmt.Errorf("internal error while fetching capsule")
	}

	if c.UnlockCode != code {
		return nil, ErrInvalidCode
	}

	switch capsule.Classify(c.UnlockAt, time.Now()) {
	case capsule.StateLocked:
		return nil, ErrLocked
	case capsule.StateExpired:
		return nil, ErrGone
	}

	return c, nil
}

// List returns one page of the caller's capsules, newest first, together with
// the total number of capsules the caller owns.
func (s *CapsuleService) List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*models.Capsule, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	capsules, err := s.store.ListCapsulesByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		log.Printf("Error listing capsules from store: %v", err)
		return nil, 0, fmt.Errorf("internal error while listing capsules")
	}

	total, err := s.store.CountCapsulesByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("Error counting capsules in store: %v", err)
		return nil, 0, fmt.Errorf("internal error while listing capsules")
	}

	return capsules, total, nil
}

// Update overwrites the message and unlock time of a capsule that is still
// locked. The capsule must belong to the caller; a mismatch reports ErrNotFound
// rather than a permission error, so non-owners cannot probe for existence.
func (s *CapsuleService) Update(ctx context.Context, id, ownerID uuid.UUID, code, message string, unlockAt time.Time) error {
	c, err := s.authorizeMutation(ctx, id, ownerID, code)
	if err != nil {
		return err
	}

	c.Message = message
	c.UnlockAt = unlockAt
	if err := s.store.UpdateCapsule(ctx, c); err != nil {
		log.Printf("Error updating capsule in store: %v", err)
		return fmt.Errorf("internal error while updating capsule")
	}
	return nil
}

// Delete permanently removes a capsule under the same preconditions as Update.
func (s *CapsuleService) Delete(ctx context.Context, id, ownerID uuid.UUID, code string) error {
	c, err := s.authorizeMutation(ctx, id, ownerID, code)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCapsule(ctx, c.ID); err != nil {
		log.Printf("Error deleting capsule from store: %v", err)
		return fmt.Errorf("internal error while deleting capsule")
	}
	return nil
}

// authorizeMutation runs the shared Update/Delete preconditions: owned by the
// caller, correct unlock code, and still strictly locked.
func (s *CapsuleService) authorizeMutation(ctx context.Context, id, ownerID uuid.UUID, code string) (*models.Capsule, error) {
	if code == "" {
		return nil, ErrCodeRequired
	}

	c, err := s.store.GetCapsuleByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching capsule from store: %v", err)
		return nil, fmt.Errorf("internal error while fetching capsule")
	}

	if c.UnlockCode != code {
		return nil, ErrInvalidCode
	}

	if !capsule.Mutable(c.UnlockAt, time.Now()) {
		return nil, ErrAlreadyUnlocked
	}

	return c, nil
}
