package postgres

import (
	"context"
	"fmt"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/repository"
)

// itemRepository implements repository.ItemRepository for PostgreSQL.
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new PostgreSQL item repository.
func NewItemRepository(db *DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new inventory item.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO inventoryitems (title, description, quantity, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.Quantity,
		item.UserID,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: owning user does not exist", domain.ErrUserNotFound)
		}
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID.
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `
		SELECT id, title, description, quantity, user_id
		FROM inventoryitems
		WHERE id = $1
	`

	item := &domain.Item{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Quantity,
		&item.UserID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return item, nil
}

// ListByUser returns all items owned by a user.
func (r *itemRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Item, error) {
	query := `
		SELECT id, title, description, quantity, user_id
		FROM inventoryitems
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.Quantity,
			&item.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update updates an existing item.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE inventoryitems
		SET title = $1, description = $2, quantity = $3, user_id = $4
		WHERE id = $5
	`

	result, err := r.db.Pool.Exec(ctx, query,
		item.Title,
		item.Description,
		item.Quantity,
		item.UserID,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Delete deletes an item by ID.
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM inventoryitems WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Ensure itemRepository implements repository.ItemRepository.
var _ repository.ItemRepository = (*itemRepository)(nil)
