package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"

	"github.com/google/uuid"
)

// AuthService manages accounts and login sessions
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	lifetime time.Duration
	now      Clock
}

// NewAuthService creates a new AuthService whose sessions last for lifetime
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, lifetime time.Duration, clock Clock) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		lifetime: lifetime,
		now:      clockOrNow(clock),
	}
}

// Lifetime is how long a fresh session stays valid
func (s *AuthService) Lifetime() time.Duration {
	return s.lifetime
}

// Register creates an account with a bcrypt-hashed password
func (s *AuthService) Register(username, password string) (*models.User, error) {
	user := &models.User{
		Username:  strings.TrimSpace(username),
		CreatedAt: s.now(),
	}
	if err := user.SetPassword(password); err != nil {
		if errors.Is(err, models.ErrPasswordTooShort) {
			return nil, &ValidationError{Fields: models.FieldErrors{
				"password": fmt.Sprintf("Ensure this value has at least %d characters.", models.MinPasswordLength),
			}}
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := user.Validate(); err != nil {
		return nil, &ValidationError{Fields: models.AsFieldErrors(err)}
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &ValidationError{Fields: models.FieldErrors{
				"username": "A user with that username already exists.",
			}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and opens a new session
func (s *AuthService) Login(username, password string) (*models.Session, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.lifetime),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Logout ends a session. Unknown sessions are ignored.
func (s *AuthService) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(sessionID)
}

// UserForSession resolves a live session to its user
func (s *AuthService) UserForSession(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, repositories.ErrNotFound
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, fmt.Errorf("session expired: %w", repositories.ErrNotFound)
	}
	return s.users.GetByID(session.UserID)
}

// DeleteUser removes an account together with its posts and sessions
func (s *AuthService) DeleteUser(username string) error {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return err
	}
	return s.users.Delete(user.ID)
}

// ListUsers returns every account ordered by id
func (s *AuthService) ListUsers() ([]*models.User, error) {
	return s.users.List()
}
