package repository

import (
	"context"
	"sync"

	"timecapsule-backend/internal/models"

	"github.com/google/uuid"
)

// InMemoryStore is an in-memory implementation of the Store interface, used
// in tests and local development.
type InMemoryStore struct {
	mu              sync.RWMutex
	usersByID       map[uuid.UUID]*models.User
	usersByUsername map[string]*models.User
	capsulesByID    map[uuid.UUID]*models.Capsule
	codes           map[string]struct{}
	order           []uuid.UUID // capsule IDs in creation order
}

// NewInMemoryStore creates a new in-memory store instance.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		usersByID:       make(map[uuid.UUID]*models.User),
		usersByUsername: make(map[string]*models.User),
		capsulesByID:    make(map[uuid.UUID]*models.Capsule),
		codes:           make(map[string]struct{}),
	}
}

// --- UserStore ---

func (s *InMemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[user.Username]; exists {
		return ErrDuplicateUsername
	}

	s.usersByID[user.ID] = user
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *InMemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[id]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

// --- CapsuleStore ---

func (s *InMemoryStore) CreateCapsule(ctx context.Context, capsule *models.Capsule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[capsule.UnlockCode]; exists {
		return ErrDuplicateCode
	}

	c := *capsule
	s.capsulesByID[c.ID] = &c
	s.codes[c.UnlockCode] = struct{}{}
	s.order = append(s.order, c.ID)
	return nil
}

func (s *InMemoryStore) GetCapsuleByID(ctx context.Context, id uuid.UUID) (*models.Capsule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	capsule, exists := s.capsulesByID[id]
	if !exists {
		return nil, ErrNotFound
	}
	c := *capsule
	return &c, nil
}

func (s *InMemoryStore) GetCapsuleByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Capsule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	capsule, exists := s.capsulesByID[id]
	if !exists || capsule.UserID != ownerID {
		// Ownership mismatch is indistinguishable from absence.
		return nil, ErrNotFound
	}
	c := *capsule
	return &c, nil
}

func (s *InMemoryStore) ListCapsulesByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Capsule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, matching the Postgres ORDER BY created_at DESC.
	owned := []*models.Capsule{}
	for i := len(s.order) - 1; i >= 0; i-- {
		capsule, exists := s.capsulesByID[s.order[i]]
		if !exists || capsule.UserID != ownerID {
			continue
		}
		owned = append(owned, capsule)
	}

	if offset >= len(owned) {
		return []*models.Capsule{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}

	page := make([]*models.Capsule, 0, end-offset)
	for _, capsule := range owned[offset:end] {
		c := *capsule
		page = append(page, &c)
	}
	return page, nil
}

func (s *InMemoryStore) CountCapsulesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, capsule := range s.capsulesByID {
		if capsule.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) UpdateCapsule(ctx context.Context, capsule *models.Capsule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.capsulesByID[capsule.ID]
	if !exists {
		return ErrNotFound
	}
	existing.Message = capsule.Message
	existing.UnlockAt = capsule.UnlockAt
	return nil
}

func (s *InMemoryStore) DeleteCapsule(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	capsule, exists := s.capsulesByID[id]
	if !exists {
		return ErrNotFound
	}
	delete(s.codes, capsule.UnlockCode)
	delete(s.capsulesByID, id)
	for i, cid := range s.order {
		if cid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
