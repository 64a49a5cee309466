package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/pkg/crypto"
	"github.com/prn-tf/stockroom/internal/repository"
)

// AuthService handles registration and login. It works through the
// persistence facade, so both flows behave identically in local and
// remote mode.
type AuthService struct {
	store  *repository.Store
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(store *repository.Store, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

// RegisterInput contains the data needed to register a new account.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// Register creates a new account. The username must not already be
// taken; the comparison is exact and case sensitive. A rejected
// registration never mutates the store.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	// Check for a duplicate before touching the store. Uniqueness lives
	// here, not in the schema, so the scan is the authority.
	for _, existing := range s.store.ListUsers(ctx) {
		if existing.Username == input.Username {
			return ErrUsernameTaken
		}
	}

	user := domain.NewUser(input.Username, crypto.HashPassword(input.Password))
	if !s.store.CreateUser(ctx, user) {
		s.logger.Warn().Str("username", input.Username).Msg("registration rejected by store")
		return ErrRegistrationFailed
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return nil
}

// Login verifies the credentials and returns the stored user. The check
// is pair equality on (username, digest); a missing user, a store
// failure, and a wrong password all collapse into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	stored := s.store.GetUser(ctx, username)
	candidate := domain.NewUser(username, crypto.HashPassword(password))

	if !stored.Equal(candidate) {
		// Log but don't expose whether the username exists.
		s.logger.Debug().Str("username", username).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().
		Int64("user_id", stored.ID).
		Str("username", stored.Username).
		Msg("user logged in")

	return stored, nil
}
