// Package domain contains the core business entities for Stockroom.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the inventory system.
package domain

import (
	"fmt"
	"math"
)

// Field bounds for inventory items.
const (
	// MaxTitleLen is the maximum stored length of an item title.
	// Longer input is truncated, not rejected.
	MaxTitleLen = 20

	// MaxDescriptionLen is the maximum stored length of an item description.
	MaxDescriptionLen = 40

	// MaxQuantity is the upper bound for item quantities. Both stores and
	// the wire format carry quantity as a 32-bit-safe integer.
	MaxQuantity = math.MaxInt32
)

// QuantityEvent signals a noteworthy quantity transition caused by a
// mutation. It is returned from the operation instead of being delivered
// through a stored observer so callers decide what to do with it.
type QuantityEvent int

const (
	// EventNone indicates no notable transition occurred.
	EventNone QuantityEvent = iota

	// EventQuantityReachedZero indicates a decrement drove the quantity
	// to exactly 0. It fires once per transition: further decrements at
	// 0 are no-ops and report EventNone.
	EventQuantityReachedZero
)

// Item represents a single inventory line item owned by a user.
//
// The JSON tags are the remote wire contract; field names must match the
// server's deserializer exactly.
type Item struct {
	// ID is the store-assigned identifier. 0 means not yet persisted.
	ID int64 `json:"id"`

	// Title is the display name, at most MaxTitleLen characters.
	Title string `json:"title"`

	// Description is free text, at most MaxDescriptionLen characters.
	Description string `json:"description"`

	// Quantity is the current stock count. Never negative; clamped to 0
	// for any out-of-range assignment.
	Quantity int `json:"quantity"`

	// UserID is the id of the owning user.
	UserID int64 `json:"userId"`
}

// NewItem creates an Item, applying the field bounds to every input.
// Pass id 0 for items that have not been persisted yet.
func NewItem(id int64, title, description string, quantity int, userID int64) *Item {
	item := &Item{
		ID:     id,
		UserID: userID,
	}
	item.SetTitle(title)
	item.SetDescription(description)
	item.SetQuantity(quantity)
	return item
}

// SetTitle stores the title truncated to MaxTitleLen characters.
func (i *Item) SetTitle(title string) {
	i.Title = truncate(title, MaxTitleLen)
}

// SetDescription stores the description truncated to MaxDescriptionLen
// characters.
func (i *Item) SetDescription(description string) {
	i.Description = truncate(description, MaxDescriptionLen)
}

// SetQuantity stores q unchanged only if 0 < q < MaxQuantity; any other
// value, including 0, a negative number, or MaxQuantity itself, stores 0.
func (i *Item) SetQuantity(q int) {
	if q > 0 && q < MaxQuantity {
		i.Quantity = q
		return
	}
	i.Quantity = 0
}

// Increment raises the quantity by one unless it is already at
// MaxQuantity, in which case it is left unchanged.
func (i *Item) Increment() {
	if i.Quantity < MaxQuantity {
		i.Quantity++
	}
}

// Decrement lowers the quantity by one, never below 0. It returns
// EventQuantityReachedZero exactly when this call moved the quantity
// from 1 to 0, and EventNone otherwise.
func (i *Item) Decrement() QuantityEvent {
	if i.Quantity <= 0 {
		return EventNone
	}
	i.Quantity--
	if i.Quantity == 0 {
		return EventQuantityReachedZero
	}
	return EventNone
}

// String renders the item for display.
func (i *Item) String() string {
	return fmt.Sprintf("[ %s has a quantity of %d ]", i.Title, i.Quantity)
}

// truncate clamps s to at most n bytes. Inputs at or under the limit are
// returned unchanged.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
