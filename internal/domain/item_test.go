package domain

import (
	"strings"
	"testing"
)

func TestItem_SetQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{name: "positive in range", input: 5, want: 5},
		{name: "one", input: 1, want: 1},
		{name: "zero clamps to zero", input: 0, want: 0},
		{name: "negative clamps to zero", input: -1, want: 0},
		{name: "large negative clamps to zero", input: -5000, want: 0},
		{name: "max quantity clamps to zero", input: MaxQuantity, want: 0},
		{name: "just below max is kept", input: MaxQuantity - 1, want: MaxQuantity - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewItem(0, "widget", "", 1, 1)
			item.SetQuantity(tt.input)
			if item.Quantity != tt.want {
				t.Errorf("SetQuantity(%d): expected %d, got %d", tt.input, tt.want, item.Quantity)
			}
		})
	}
}

func TestItem_Increment(t *testing.T) {
	item := NewItem(0, "widget", "", 3, 1)

	item.Increment()
	if item.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", item.Quantity)
	}

	item.Quantity = MaxQuantity
	item.Increment()
	if item.Quantity != MaxQuantity {
		t.Errorf("expected quantity to stay at max, got %d", item.Quantity)
	}
}

func TestItem_Decrement(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		wantQty   int
		wantEvent QuantityEvent
	}{
		{name: "above one", start: 5, wantQty: 4, wantEvent: EventNone},
		{name: "reaches zero", start: 1, wantQty: 0, wantEvent: EventQuantityReachedZero},
		{name: "already zero is a no-op", start: 0, wantQty: 0, wantEvent: EventNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewItem(0, "widget", "", tt.start, 1)
			event := item.Decrement()
			if item.Quantity != tt.wantQty {
				t.Errorf("expected quantity %d, got %d", tt.wantQty, item.Quantity)
			}
			if event != tt.wantEvent {
				t.Errorf("expected event %v, got %v", tt.wantEvent, event)
			}
		})
	}
}

// The zero event fires exactly once per transition, no matter how many
// decrements follow.
func TestItem_DecrementEventFiresOnce(t *testing.T) {
	item := NewItem(0, "widget", "", 3, 1)

	fired := 0
	for n := 0; n < 6; n++ {
		if item.Decrement() == EventQuantityReachedZero {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("expected zero event exactly once, got %d", fired)
	}
	if item.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", item.Quantity)
	}
}

func TestItem_SetTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short title unchanged", input: "Bolts", want: "Bolts"},
		{name: "exact limit unchanged", input: strings.Repeat("a", MaxTitleLen), want: strings.Repeat("a", MaxTitleLen)},
		{name: "over limit truncated", input: "Bolts-M6-Extra-Long-Size", want: "Bolts-M6-Extra-Long-"},
		{name: "empty title", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{}
			item.SetTitle(tt.input)
			if item.Title != tt.want {
				t.Errorf("SetTitle(%q): expected %q, got %q", tt.input, tt.want, item.Title)
			}

			// Truncation is idempotent: reapplying the stored value
			// must not change it.
			item.SetTitle(item.Title)
			if item.Title != tt.want {
				t.Errorf("SetTitle not idempotent: got %q", item.Title)
			}
		})
	}
}

func TestItem_SetDescription(t *testing.T) {
	long := strings.Repeat("x", MaxDescriptionLen+13)

	item := &Item{}
	item.SetDescription(long)
	if len(item.Description) != MaxDescriptionLen {
		t.Errorf("expected description length %d, got %d", MaxDescriptionLen, len(item.Description))
	}
	if item.Description != long[:MaxDescriptionLen] {
		t.Errorf("expected prefix truncation, got %q", item.Description)
	}

	item.SetDescription("plain")
	if item.Description != "plain" {
		t.Errorf("expected %q, got %q", "plain", item.Description)
	}
}

func TestNewItem(t *testing.T) {
	item := NewItem(7, "Bolts-M6-Extra-Long-Size", strings.Repeat("d", 50), -3, 2)

	if item.ID != 7 {
		t.Errorf("expected ID 7, got %d", item.ID)
	}
	if item.UserID != 2 {
		t.Errorf("expected UserID 2, got %d", item.UserID)
	}
	if item.Title != "Bolts-M6-Extra-Long-" {
		t.Errorf("expected truncated title, got %q", item.Title)
	}
	if len(item.Description) != MaxDescriptionLen {
		t.Errorf("expected description length %d, got %d", MaxDescriptionLen, len(item.Description))
	}
	if item.Quantity != 0 {
		t.Errorf("expected negative quantity clamped to 0, got %d", item.Quantity)
	}
}

func TestItem_String(t *testing.T) {
	item := NewItem(1, "Bolts", "", 12, 1)

	got := item.String()
	want := "[ Bolts has a quantity of 12 ]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
