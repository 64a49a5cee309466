package sqlite

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/repository"
)

// LocalStore is the client-side repository.Backend over an embedded SQLite
// file. Every call opens its own connection, ensures the schema, performs
// one operation, and closes again; no handle outlives the call. That keeps
// the database file free for other processes between operations at the
// cost of per-call open/close overhead.
type LocalStore struct {
	cfg    Config
	logger zerolog.Logger
}

// NewLocalStore creates a local store over the given database file.
func NewLocalStore(cfg Config, logger zerolog.Logger) *LocalStore {
	return &LocalStore{
		cfg:    cfg,
		logger: logger.With().Str("backend", "sqlite").Logger(),
	}
}

// withDB runs fn against a freshly opened, schema-checked connection.
func (s *LocalStore) withDB(ctx context.Context, fn func(db *DB) error) error {
	db, err := NewDB(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(db)
}

// CreateItem inserts a new item and assigns its ID.
func (s *LocalStore) CreateItem(ctx context.Context, item *domain.Item) error {
	return s.withDB(ctx, func(db *DB) error {
		return NewItemRepository(db).Create(ctx, item)
	})
}

// GetItem retrieves an item by ID.
func (s *LocalStore) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var item *domain.Item
	err := s.withDB(ctx, func(db *DB) error {
		var err error
		item, err = NewItemRepository(db).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items owned by the user.
func (s *LocalStore) ListItems(ctx context.Context, userID int64) ([]*domain.Item, error) {
	var items []*domain.Item
	err := s.withDB(ctx, func(db *DB) error {
		var err error
		items, err = NewItemRepository(db).ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem rewrites an existing item.
func (s *LocalStore) UpdateItem(ctx context.Context, item *domain.Item) error {
	return s.withDB(ctx, func(db *DB) error {
		return NewItemRepository(db).Update(ctx, item)
	})
}

// DeleteItem removes an item by ID.
func (s *LocalStore) DeleteItem(ctx context.Context, id int64) error {
	return s.withDB(ctx, func(db *DB) error {
		return NewItemRepository(db).Delete(ctx, id)
	})
}

// CreateUser inserts a new user and assigns its ID.
func (s *LocalStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.withDB(ctx, func(db *DB) error {
		return NewUserRepository(db).Create(ctx, user)
	})
}

// GetUser retrieves a user by exact username.
func (s *LocalStore) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := s.withDB(ctx, func(db *DB) error {
		var err error
		user, err = NewUserRepository(db).GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every registered user.
func (s *LocalStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.withDB(ctx, func(db *DB) error {
		var err error
		users, err = NewUserRepository(db).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Ensure LocalStore implements repository.Backend.
var _ repository.Backend = (*LocalStore)(nil)
