package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"timecapsule-backend/internal/auth"
	"timecapsule-backend/internal/models"
	"timecapsule-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration and login.
type UserService struct {
	store        repository.UserStore
	tokenService *auth.TokenService
}

// NewUserService creates a new user service.
func NewUserService(store repository.UserStore, tokenService *auth.TokenService) *UserService {
	return &UserService{
		store:        store,
		tokenService: tokenService,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error generating bcrypt hash: %v", err)
		return nil, fmt.Errorf("internal error while processing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserExists
		}
		log.Printf("Error saving user to store: %v", err)
		return nil, fmt.Errorf("internal error while saving user")
	}

	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		log.Printf("Error fetching user from store: %v", err)
		return "", fmt.Errorf("internal error while fetching user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	token, err := s.tokenService.NewToken(user.ID)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return "", fmt.Errorf("internal error while generating token")
	}

	return token, nil
}
