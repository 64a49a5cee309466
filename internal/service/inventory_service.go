package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/repository"
)

// InventoryService handles item bookkeeping through the persistence
// facade. Mutations work on a copy and commit to the caller's item only
// after the store accepted the change, so a failed call leaves the
// caller's view untouched.
type InventoryService struct {
	store  *repository.Store
	logger zerolog.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(store *repository.Store, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		store:  store,
		logger: logger.With().Str("service", "inventory").Logger(),
	}
}

// AddItemInput contains the data needed to create an item. Quantity is
// the raw user input; it is parsed here, not at the prompt.
type AddItemInput struct {
	Title       string
	Description string
	Quantity    string
	UserID      int64
}

// Add creates a new item for the user. A non-numeric quantity defaults
// to 1; the parsed value then passes through the entity clamp, so
// out-of-range input stores as 0.
func (s *InventoryService) Add(ctx context.Context, input AddItemInput) (*domain.Item, error) {
	quantity, err := strconv.Atoi(input.Quantity)
	if err != nil {
		quantity = 1
	}

	item := domain.NewItem(0, input.Title, input.Description, quantity, input.UserID)
	if !s.store.CreateItem(ctx, item) {
		return nil, ErrStoreFailed
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Str("title", item.Title).
		Int("quantity", item.Quantity).
		Int64("user_id", item.UserID).
		Msg("item added")

	return item, nil
}

// List returns the user's items. The slice is never nil; when the store
// is unreachable it comes back empty alongside ErrStoreUnavailable.
func (s *InventoryService) List(ctx context.Context, userID int64) ([]*domain.Item, error) {
	items, ok := s.store.ListItems(ctx, userID)
	if !ok {
		return items, ErrStoreUnavailable
	}
	return items, nil
}

// Increment raises the item's quantity by one and persists it.
func (s *InventoryService) Increment(ctx context.Context, item *domain.Item) error {
	updated := *item
	updated.Increment()

	if !s.store.UpdateItem(ctx, &updated) {
		return ErrStoreFailed
	}
	*item = updated

	return nil
}

// Decrement lowers the item's quantity by one and persists it. The
// zero-quantity event is returned exactly when the store accepted the
// transition to 0; a failed update reports no event.
func (s *InventoryService) Decrement(ctx context.Context, item *domain.Item) (domain.QuantityEvent, error) {
	updated := *item
	event := updated.Decrement()

	if !s.store.UpdateItem(ctx, &updated) {
		return domain.EventNone, ErrStoreFailed
	}
	*item = updated

	return event, nil
}

// Remove deletes the item from the store.
func (s *InventoryService) Remove(ctx context.Context, item *domain.Item) error {
	if !s.store.DeleteItem(ctx, item.ID) {
		return ErrStoreFailed
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Str("title", item.Title).
		Msg("item removed")

	return nil
}
