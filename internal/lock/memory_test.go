package lock

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLocker_AcquireAndRelease(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := Keys.Item(42)

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("expected to acquire free lock")
	}

	held, err := locker.IsHeld(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !held {
		t.Error("expected lock to be held")
	}

	released, err := locker.Release(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !released {
		t.Error("expected release to succeed")
	}

	held, err = locker.IsHeld(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if held {
		t.Error("expected lock to be free after release")
	}
}

func TestMemoryLocker_ContendedAcquireFails(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := Keys.Item(42)

	if acquired, _ := locker.Acquire(ctx, key, time.Minute); !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Error("expected second acquire to fail while held")
	}

	// A different key is unaffected.
	if acquired, _ := locker.Acquire(ctx, Keys.Item(43), time.Minute); !acquired {
		t.Error("expected unrelated key to acquire")
	}
}

func TestMemoryLocker_ExpiredLockIsReacquirable(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := Keys.Item(42)

	if acquired, _ := locker.Acquire(ctx, key, 10*time.Millisecond); !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	time.Sleep(20 * time.Millisecond)

	held, err := locker.IsHeld(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if held {
		t.Error("expected expired lock to report free")
	}

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("expected to reacquire expired lock")
	}
}

func TestMemoryLocker_AcquireWithRetry(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := Keys.Item(42)

	if acquired, _ := locker.Acquire(ctx, key, 15*time.Millisecond); !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	// The holder expires mid-retry, so a later attempt wins.
	acquired, err := locker.AcquireWithRetry(ctx, key, time.Minute, 5, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("expected retry to acquire after expiry")
	}
}

func TestMemoryLocker_AcquireWithRetryGivesUp(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := Keys.Item(42)

	if acquired, _ := locker.Acquire(ctx, key, time.Minute); !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	acquired, err := locker.AcquireWithRetry(ctx, key, time.Minute, 2, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Error("expected retries to exhaust while held")
	}
}

func TestMemoryLocker_ReleaseUnheld(t *testing.T) {
	locker := NewMemoryLocker()

	released, err := locker.Release(context.Background(), Keys.Item(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released {
		t.Error("expected release of unheld lock to report false")
	}
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	locker := NewMemoryLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := locker.Acquire(ctx, Keys.Item(42), time.Minute); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestKeys_Item(t *testing.T) {
	if got := Keys.Item(42); got != "lock:item:42" {
		t.Errorf("expected lock:item:42, got %s", got)
	}
}
