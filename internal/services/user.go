package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atakandgn/company-management-system/internal/auth"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/atakandgn/company-management-system/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgInvalidEmail    = "invalid email address"
	msgInvalidPassword = "password must be at least 8 characters long, contain one uppercase letter, one lowercase letter, and one number"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer issues bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	TTL() time.Duration
}

// UserService encapsulates registration, login and profile use-cases.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewUserService(repo UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With().Str("service", "user").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// RegisterInput contains the data needed to create an account.
type RegisterInput struct {
	Firstname string
	Lastname  string
	Username  string
	Email     string
	Password  string
}

// Register creates an account and returns the new user's id.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (string, error) {
	input.Firstname = strings.TrimSpace(input.Firstname)
	input.Lastname = strings.TrimSpace(input.Lastname)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if !auth.ValidateEmail(input.Email) {
		return "", validationError(msgInvalidEmail)
	}
	if !auth.ValidatePassword(input.Password) {
		return "", validationError(msgInvalidPassword)
	}
	if input.Firstname == "" || input.Lastname == "" || input.Username == "" {
		return "", validationError("please fill in all required fields")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return "", &Error{Kind: ErrStore, Message: storeFailureMessage, Err: err}
	}

	now := s.now()
	user, err := s.repo.Create(ctx, types.User{
		ID:           s.newID(),
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return "", conflictError("username or email already in use", err)
		}
		return "", storeError(s.logger, "create user", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user.ID, nil
}

// Login verifies credentials and issues a token for the user.
func (s *UserService) Login(ctx context.Context, username, password string) (string, types.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", types.User{}, notFoundError("user not found")
		}
		return "", types.User{}, storeError(s.logger, "get user by username", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Debug().Str("username", user.Username).Msg("invalid password during login")
		return "", types.User{}, authError("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		return "", types.User{}, &Error{Kind: ErrStore, Message: storeFailureMessage, Err: err}
	}
	return token, user, nil
}

// TokenTTL reports how long tokens returned by Login stay valid.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, notFoundError("user not found")
		}
		return types.User{}, storeError(s.logger, "get user", err)
	}
	return user, nil
}

// UserUpdate carries the fields of a profile update. Empty fields keep the
// stored value; a supplied password replaces the stored hash.
type UserUpdate struct {
	Firstname string
	Lastname  string
	Username  string
	Email     string
	Password  string
}

func (s *UserService) Update(ctx context.Context, id string, update UserUpdate) (types.User, error) {
	update.Email = strings.TrimSpace(update.Email)
	if update.Email != "" && !auth.ValidateEmail(update.Email) {
		return types.User{}, validationError(msgInvalidEmail)
	}
	if update.Password != "" && !auth.ValidatePassword(update.Password) {
		return types.User{}, validationError(msgInvalidPassword)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	user.Firstname = orKeep(update.Firstname, user.Firstname)
	user.Lastname = orKeep(update.Lastname, user.Lastname)
	user.Username = orKeep(update.Username, user.Username)
	user.Email = orKeep(update.Email, user.Email)
	if update.Password != "" {
		hash, err := s.hasher.Hash(update.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return types.User{}, &Error{Kind: ErrStore, Message: storeFailureMessage, Err: err}
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return types.User{}, notFoundError("user not found")
		case errors.Is(err, store.ErrConflict):
			return types.User{}, conflictError("username or email already in use", err)
		}
		return types.User{}, storeError(s.logger, "update user", err)
	}

	s.logger.Info().Str("user_id", updated.ID).Bool("password_changed", update.Password != "").Msg("user updated")
	return updated, nil
}
