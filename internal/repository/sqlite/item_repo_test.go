package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/stockroom/internal/domain"
)

func seedUser(t *testing.T, db *DB, username string) *domain.User {
	t.Helper()
	user := domain.NewUser(username, "digest-"+username)
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestItemRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))
	owner := seedUser(t, db, "alice")
	repo := NewItemRepository(db)

	item := domain.NewItem(0, "Bolts", "M6 hex bolts", 40, owner.ID)
	require.NoError(t, repo.Create(ctx, item))
	require.Positive(t, item.ID)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)
	require.Equal(t, "Bolts", got.Title)
	require.Equal(t, "M6 hex bolts", got.Description)
	require.Equal(t, 40, got.Quantity)
	require.Equal(t, owner.ID, got.UserID)
}

func TestItemRepository_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))

	_, err := NewItemRepository(db).GetByID(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	repo := NewItemRepository(db)

	require.NoError(t, repo.Create(ctx, domain.NewItem(0, "Bolts", "", 40, alice.ID)))
	require.NoError(t, repo.Create(ctx, domain.NewItem(0, "Nuts", "", 12, alice.ID)))
	require.NoError(t, repo.Create(ctx, domain.NewItem(0, "Washers", "", 7, bob.ID)))

	items, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, alice.ID, item.UserID)
	}

	items, err = repo.ListByUser(ctx, 12345)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestItemRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))
	owner := seedUser(t, db, "alice")
	repo := NewItemRepository(db)

	item := domain.NewItem(0, "Bolts", "", 40, owner.ID)
	require.NoError(t, repo.Create(ctx, item))

	item.SetQuantity(39)
	item.SetDescription("restocked")
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 39, got.Quantity)
	require.Equal(t, "restocked", got.Description)
}

func TestItemRepository_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))
	owner := seedUser(t, db, "alice")

	ghost := domain.NewItem(4242, "ghost", "", 1, owner.ID)
	err := NewItemRepository(db).Update(ctx, ghost)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))
	owner := seedUser(t, db, "alice")
	repo := NewItemRepository(db)

	item := domain.NewItem(0, "Bolts", "", 40, owner.ID)
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	require.ErrorIs(t, repo.Delete(ctx, item.ID), domain.ErrItemNotFound)
}

func TestItemRepository_CreateUnknownOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, filepath.Join(t.TempDir(), "stockroom.db"))

	err := NewItemRepository(db).Create(ctx, domain.NewItem(0, "orphan", "", 1, 777))
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
