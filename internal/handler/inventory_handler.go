package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/lock"
	"github.com/prn-tf/stockroom/internal/repository"
)

// Lock acquisition limits for item mutations.
const (
	lockMaxRetries = 3
	lockRetryDelay = 50 * time.Millisecond
)

// InventoryHandler handles the /api/Inventory endpoints.
type InventoryHandler struct {
	items    repository.ItemRepository
	cache    repository.Cache
	cacheTTL time.Duration
	locker   lock.Locker
	lockTTL  time.Duration
	logger   zerolog.Logger
}

// InventoryHandlerConfig contains configuration for the inventory handler.
type InventoryHandlerConfig struct {
	Items    repository.ItemRepository
	Cache    repository.Cache // nil disables listing caching
	CacheTTL time.Duration
	Locker   lock.Locker
	LockTTL  time.Duration
	Logger   zerolog.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(cfg InventoryHandlerConfig) *InventoryHandler {
	return &InventoryHandler{
		items:    cfg.Items,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		locker:   cfg.Locker,
		lockTTL:  cfg.LockTTL,
		logger:   cfg.Logger.With().Str("handler", "inventory").Logger(),
	}
}

// RegisterRoutes registers the inventory routes.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{itemID}", h.handleGet)
	r.Put("/{itemID}", h.handleUpdate)
	r.Delete("/{itemID}", h.handleDelete)
}

// handleCreate inserts a new item and responds with the assigned id as
// a plain-text body, which is what the client parses.
func (h *InventoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.Item
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item payload")
		return
	}

	// Normalization runs server-side too, so over-limit input stores
	// the same way no matter which client sent it.
	item := domain.NewItem(0, payload.Title, payload.Description, payload.Quantity, payload.UserID)

	if err := h.items.Create(r.Context(), item); err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "owning user does not exist")
			return
		}
		h.logger.Error().Err(err).Msg("failed to create item")
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.invalidateListing(r.Context(), item.UserID)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strconv.FormatInt(item.ID, 10)))
}

// handleList returns the items owned by the user named in the required
// userId query parameter. Responses are cached per user; every write
// invalidates the owner's entry.
func (h *InventoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("userId")
	if rawUserID == "" {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be an integer")
		return
	}

	key := repository.CacheKey{}.UserItems(userID)
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	items, err := h.items.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list items")
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	body, err := json.Marshal(items)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode items")
		writeError(w, http.StatusInternalServerError, "failed to encode items")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, body, h.cacheTTL); err != nil {
			h.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to cache listing")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleGet returns a single item as JSON.
func (h *InventoryHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error().Err(err).Int64("item_id", id).Msg("failed to get item")
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleUpdate rewrites an item under its per-item lock.
func (h *InventoryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var payload domain.Item
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item payload")
		return
	}

	// The path id is authoritative; the body id is ignored.
	item := domain.NewItem(id, payload.Title, payload.Description, payload.Quantity, payload.UserID)

	release, ok := h.lockItem(w, r, id)
	if !ok {
		return
	}
	defer release()

	if err := h.items.Update(r.Context(), item); err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error().Err(err).Int64("item_id", id).Msg("failed to update item")
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.invalidateListing(r.Context(), item.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// handleDelete removes an item under its per-item lock.
func (h *InventoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	release, ok := h.lockItem(w, r, id)
	if !ok {
		return
	}
	defer release()

	// Fetch first so the owning user's listing can be invalidated.
	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error().Err(err).Int64("item_id", id).Msg("failed to get item")
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	if err := h.items.Delete(r.Context(), id); err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error().Err(err).Int64("item_id", id).Msg("failed to delete item")
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.invalidateListing(r.Context(), item.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// itemID parses the {itemID} route parameter. On failure it writes the
// 400 and reports false.
func (h *InventoryHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// lockItem serializes mutations of one item. On contention it writes
// the 409 and reports false.
func (h *InventoryHandler) lockItem(w http.ResponseWriter, r *http.Request, id int64) (func(), bool) {
	key := lock.Keys.Item(id)

	acquired, err := h.locker.AcquireWithRetry(r.Context(), key, h.lockTTL, lockMaxRetries, lockRetryDelay)
	if err != nil {
		h.logger.Error().Err(err).Int64("item_id", id).Msg("failed to acquire item lock")
		writeError(w, http.StatusInternalServerError, "failed to lock item")
		return nil, false
	}
	if !acquired {
		writeError(w, http.StatusConflict, "item is locked by another request")
		return nil, false
	}

	release := func() {
		// Release must run even when the request context is gone.
		if _, err := h.locker.Release(context.Background(), key); err != nil {
			h.logger.Warn().Err(err).Int64("item_id", id).Msg("failed to release item lock")
		}
	}
	return release, true
}

// invalidateListing drops the cached listing for the user after a write.
func (h *InventoryHandler) invalidateListing(ctx context.Context, userID int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, repository.CacheKey{}.UserItems(userID)); err != nil {
		h.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to invalidate listing cache")
	}
}
