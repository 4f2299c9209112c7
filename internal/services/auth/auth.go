package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/validation"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password
	// was incorrect. Both failure modes share one error so login attempts
	// cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates that the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrWeakCredentials indicates the registration input failed basic
	// strength checks.
	ErrWeakCredentials = errors.New("username must be at least 3 characters and password at least 8")
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// Service handles account registration and credential checks.
type Service struct {
	users  database.UserStore
	logger *zap.Logger
}

// NewService creates an auth service backed by the given user store.
func NewService(users database.UserStore, logger *zap.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*models.User, error) {
	username = strings.ToLower(validation.SanitizeText(username))
	displayName = validation.SanitizeText(displayName)

	if len(username) < minUsernameLen || len(password) < minPasswordLen {
		return nil, ErrWeakCredentials
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Authenticate checks a username/password pair and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
