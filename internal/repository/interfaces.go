// Package repository defines data access contracts for Stockroom.
// These interfaces abstract persistence, allowing the same flows to run
// against the embedded SQLite store, the remote HTTP API, or mocks in tests.
package repository

import (
	"context"

	"github.com/prn-tf/stockroom/internal/domain"
)

// =============================================================================
// Backend (dual-mode store contract)
// =============================================================================

// Backend is the contract both the local SQLite store and the remote HTTP
// client satisfy. The Store facade routes every call to exactly one Backend;
// nothing above the facade knows which one is active.
//
// All methods are single-shot: one call performs one store operation with no
// retry. Implementations return errors; degrading them to sentinel results
// is the facade's job alone.
type Backend interface {
	// CreateItem inserts a new item and assigns its positive ID on success.
	CreateItem(ctx context.Context, item *domain.Item) error

	// GetItem retrieves an item by ID. Absence is reported with an error
	// satisfying IsNotFound.
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// ListItems returns all items owned by the given user.
	ListItems(ctx context.Context, userID int64) ([]*domain.Item, error)

	// UpdateItem rewrites all mutable fields of an existing item.
	// Absence is reported with an error satisfying IsNotFound.
	UpdateItem(ctx context.Context, item *domain.Item) error

	// DeleteItem removes an item by ID. Absence is reported with an error
	// satisfying IsNotFound.
	DeleteItem(ctx context.Context, id int64) error

	// CreateUser inserts a new user and assigns its positive ID on success.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by exact, case-sensitive username.
	// Absence is reported with an error satisfying IsNotFound.
	GetUser(ctx context.Context, username string) (*domain.User, error)

	// ListUsers returns every registered user.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// =============================================================================
// Server-Side Repositories
// =============================================================================

// ItemRepository defines item data access for the API server, bound to a
// pooled database handle rather than the per-call sessions the client uses.
type ItemRepository interface {
	// Create inserts a new item and assigns its ID.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// ListByUser returns all items owned by a user.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Item, error)

	// Update rewrites an existing item.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item by ID.
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines user data access for the API server.
type UserRepository interface {
	// Create inserts a new user and assigns its ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by exact username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns every registered user.
	List(ctx context.Context) ([]*domain.User, error)
}

// Repositories holds the repository instances for one database backend.
type Repositories struct {
	Items ItemRepository
	Users UserRepository
}

// DatabaseHealth is the lifecycle surface a database handle exposes to the
// server binary: liveness for the health endpoint, Close for shutdown.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
