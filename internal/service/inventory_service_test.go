package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
)

func TestInventoryService_Add(t *testing.T) {
	tests := []struct {
		name         string
		input        AddItemInput
		wantQuantity int
		wantTitle    string
		wantErr      error
		failAll      bool
	}{
		{
			name:         "numeric quantity",
			input:        AddItemInput{Title: "Hammer", Description: "Claw hammer", Quantity: "5", UserID: 1},
			wantQuantity: 5,
			wantTitle:    "Hammer",
		},
		{
			name:         "non-numeric quantity defaults to one",
			input:        AddItemInput{Title: "Hammer", Quantity: "banana", UserID: 1},
			wantQuantity: 1,
			wantTitle:    "Hammer",
		},
		{
			name:         "empty quantity defaults to one",
			input:        AddItemInput{Title: "Hammer", Quantity: "", UserID: 1},
			wantQuantity: 1,
			wantTitle:    "Hammer",
		},
		{
			name:         "negative quantity clamps to zero",
			input:        AddItemInput{Title: "Hammer", Quantity: "-3", UserID: 1},
			wantQuantity: 0,
			wantTitle:    "Hammer",
		},
		{
			name:         "max quantity clamps to zero",
			input:        AddItemInput{Title: "Hammer", Quantity: strconv.Itoa(domain.MaxQuantity), UserID: 1},
			wantQuantity: 0,
			wantTitle:    "Hammer",
		},
		{
			name:         "overlong title truncates",
			input:        AddItemInput{Title: "Bolts-M6-Extra-Long-Size", Quantity: "5", UserID: 1},
			wantQuantity: 5,
			wantTitle:    "Bolts-M6-Extra-Long-",
		},
		{
			name:    "store failure",
			input:   AddItemInput{Title: "Hammer", Quantity: "5", UserID: 1},
			wantErr: ErrStoreFailed,
			failAll: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMockBackend()
			backend.failAll = tt.failAll

			svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

			item, err := svc.Add(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item.ID == 0 {
				t.Error("expected store-assigned id")
			}
			if item.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, item.Title)
			}
			if item.Quantity != tt.wantQuantity {
				t.Errorf("expected quantity %d, got %d", tt.wantQuantity, item.Quantity)
			}
			if item.UserID != tt.input.UserID {
				t.Errorf("expected user id %d, got %d", tt.input.UserID, item.UserID)
			}
		})
	}
}

func TestInventoryService_List(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	for _, seed := range []struct {
		title  string
		userID int64
	}{
		{title: "Hammer", userID: 1},
		{title: "Nails", userID: 1},
		{title: "Saw", userID: 2},
	} {
		if _, err := svc.Add(context.Background(), AddItemInput{Title: seed.title, Quantity: "1", UserID: seed.userID}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items for user 1, got %d", len(items))
	}
	for _, item := range items {
		if item.UserID != 1 {
			t.Errorf("item %d belongs to user %d", item.ID, item.UserID)
		}
	}
}

func TestInventoryService_ListEmpty(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestInventoryService_ListStoreFailure(t *testing.T) {
	backend := newMockBackend()
	backend.failAll = true
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	items, err := svc.List(context.Background(), 1)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if items == nil {
		t.Error("expected empty slice even on failure, got nil")
	}
}

func TestInventoryService_Increment(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	item, err := svc.Add(context.Background(), AddItemInput{Title: "Hammer", Quantity: "3", UserID: 1})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := svc.Increment(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", item.Quantity)
	}

	stored, err := backend.GetItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("stored item missing: %v", err)
	}
	if stored.Quantity != 4 {
		t.Errorf("expected persisted quantity 4, got %d", stored.Quantity)
	}
}

func TestInventoryService_IncrementStoreFailure(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	item, err := svc.Add(context.Background(), AddItemInput{Title: "Hammer", Quantity: "3", UserID: 1})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	backend.failAll = true
	if err := svc.Increment(context.Background(), item); !errors.Is(err, ErrStoreFailed) {
		t.Fatalf("expected ErrStoreFailed, got %v", err)
	}
	if item.Quantity != 3 {
		t.Errorf("failed increment mutated the caller's item: quantity %d", item.Quantity)
	}
}

func TestInventoryService_Decrement(t *testing.T) {
	tests := []struct {
		name         string
		start        int
		wantQuantity int
		wantEvent    domain.QuantityEvent
	}{
		{name: "above one", start: 3, wantQuantity: 2, wantEvent: domain.EventNone},
		{name: "last unit", start: 1, wantQuantity: 0, wantEvent: domain.EventQuantityReachedZero},
		{name: "already zero", start: 0, wantQuantity: 0, wantEvent: domain.EventNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMockBackend()
			svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

			item := domain.NewItem(0, "Hammer", "", tt.start, 1)
			if tt.start == 0 {
				// The clamp would turn 0 into 0 anyway; seed directly so
				// the intent is visible.
				item.Quantity = 0
			}
			if err := backend.CreateItem(context.Background(), item); err != nil {
				t.Fatalf("seed failed: %v", err)
			}

			event, err := svc.Decrement(context.Background(), item)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event != tt.wantEvent {
				t.Errorf("expected event %v, got %v", tt.wantEvent, event)
			}
			if item.Quantity != tt.wantQuantity {
				t.Errorf("expected quantity %d, got %d", tt.wantQuantity, item.Quantity)
			}

			stored, err := backend.GetItem(context.Background(), item.ID)
			if err != nil {
				t.Fatalf("stored item missing: %v", err)
			}
			if stored.Quantity != tt.wantQuantity {
				t.Errorf("expected persisted quantity %d, got %d", tt.wantQuantity, stored.Quantity)
			}
		})
	}
}

func TestInventoryService_DecrementStoreFailureSuppressesEvent(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	item, err := svc.Add(context.Background(), AddItemInput{Title: "Hammer", Quantity: "1", UserID: 1})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	backend.failAll = true
	event, err := svc.Decrement(context.Background(), item)
	if !errors.Is(err, ErrStoreFailed) {
		t.Fatalf("expected ErrStoreFailed, got %v", err)
	}
	if event != domain.EventNone {
		t.Errorf("unpersisted transition reported event %v", event)
	}
	if item.Quantity != 1 {
		t.Errorf("failed decrement mutated the caller's item: quantity %d", item.Quantity)
	}
}

func TestInventoryService_Remove(t *testing.T) {
	backend := newMockBackend()
	svc := NewInventoryService(newTestStore(backend), zerolog.Nop())

	item, err := svc.Add(context.Background(), AddItemInput{Title: "Hammer", Quantity: "1", UserID: 1})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := svc.Remove(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := backend.GetItem(context.Background(), item.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected item gone, got %v", err)
	}

	// Removing it again fails through the store boundary.
	if err := svc.Remove(context.Background(), item); !errors.Is(err, ErrStoreFailed) {
		t.Errorf("expected ErrStoreFailed on double remove, got %v", err)
	}
}
