package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
)

// Mode selects which backend the Store routes to.
type Mode int

const (
	// ModeLocal routes to the embedded SQLite store.
	ModeLocal Mode = iota

	// ModeRemote routes to the HTTP API client.
	ModeRemote
)

// String returns the mode name as used in configuration.
func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// ParseMode parses a configuration mode string.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "local":
		return ModeLocal, nil
	case "remote":
		return ModeRemote, nil
	}
	return ModeLocal, fmt.Errorf("unknown store mode %q", s)
}

// Store is the persistence facade the flows talk to. It holds the mode as
// the single authority and routes every call to exactly one backend.
//
// The Store is also the degradation boundary: backend errors never leave
// it. They are logged and converted to the documented sentinel results
// (false, nil, empty slice), so callers branch on outcomes, not errors.
//
// All operations serialize through one mutex: at most one store operation
// is in flight per Store, and concurrent callers block until the running
// operation completes. Cancellation arrives through the context handed to
// the backend.
type Store struct {
	mu     sync.Mutex
	mode   Mode
	local  Backend
	remote Backend
	logger zerolog.Logger
}

// NewStore creates a Store facade over the two backends, starting in the
// given mode.
func NewStore(local, remote Backend, mode Mode, logger zerolog.Logger) *Store {
	return &Store{
		mode:   mode,
		local:  local,
		remote: remote,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// backend returns the active backend. Callers must hold mu.
func (s *Store) backend() Backend {
	if s.mode == ModeRemote {
		return s.remote
	}
	return s.local
}

// Mode returns the currently active mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the facade to the given mode.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.logger.Info().Str("mode", mode.String()).Msg("store mode set")
}

// Toggle switches between local and remote and returns the new mode.
func (s *Store) Toggle() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeLocal {
		s.mode = ModeRemote
	} else {
		s.mode = ModeLocal
	}
	s.logger.Info().Str("mode", s.mode.String()).Msg("store mode toggled")
	return s.mode
}

// CreateItem persists a new item. Returns true iff the backend assigned
// the item a positive ID.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend().CreateItem(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("mode", s.mode.String()).Msg("create item failed")
		return false
	}
	return item.ID > 0
}

// UpdateItem rewrites an existing item. Returns false when the item does
// not exist or the backend failed.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend().UpdateItem(ctx, item); err != nil {
		if !IsNotFound(err) {
			s.logger.Error().Err(err).Str("mode", s.mode.String()).Int64("id", item.ID).Msg("update item failed")
		}
		return false
	}
	return true
}

// DeleteItem removes an item by ID. Returns false when the item does not
// exist or the backend failed.
func (s *Store) DeleteItem(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend().DeleteItem(ctx, id); err != nil {
		if !IsNotFound(err) {
			s.logger.Error().Err(err).Str("mode", s.mode.String()).Int64("id", id).Msg("delete item failed")
		}
		return false
	}
	return true
}

// GetItem retrieves an item by ID. Returns nil when the item is absent or
// the backend failed.
func (s *Store) GetItem(ctx context.Context, id int64) *domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.backend().GetItem(ctx, id)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error().Err(err).Str("mode", s.mode.String()).Int64("id", id).Msg("get item failed")
		}
		return nil
	}
	return item
}

// ListItems returns the user's items. The slice is empty, never nil. The
// bool reports whether the listing came from the backend: false means the
// backend failed and the caller should treat the store as unreachable.
func (s *Store) ListItems(ctx context.Context, userID int64) ([]*domain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.backend().ListItems(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("mode", s.mode.String()).Int64("user_id", userID).Msg("list items failed")
		return []*domain.Item{}, false
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, true
}

// CreateUser persists a new user. Returns true iff the backend assigned
// the user a positive ID.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend().CreateUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("mode", s.mode.String()).Msg("create user failed")
		return false
	}
	return user.ID > 0
}

// GetUser retrieves a user by exact username. Returns nil when the user is
// absent or the backend failed.
func (s *Store) GetUser(ctx context.Context, username string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.backend().GetUser(ctx, username)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error().Err(err).Str("mode", s.mode.String()).Msg("get user failed")
		}
		return nil
	}
	return user
}

// ListUsers returns every registered user. The slice is empty, never nil,
// when the backend fails.
func (s *Store) ListUsers(ctx context.Context) []*domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.backend().ListUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("mode", s.mode.String()).Msg("list users failed")
		return []*domain.User{}
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users
}
