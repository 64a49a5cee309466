package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/repository"
)

// UserHandler handles the /api/Users endpoints. Users arrive with the
// password digest already computed; the server never sees plaintext.
type UserHandler struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users repository.UserRepository, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
}

// handleCreate inserts a user and responds with the assigned id as a
// plain-text body.
func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.User
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user payload")
		return
	}
	if payload.Username == "" || payload.PasswordHash == "" {
		writeError(w, http.StatusBadRequest, "username and passwordHash are required")
		return
	}

	user := domain.NewUser(payload.Username, payload.PasswordHash)
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strconv.FormatInt(user.ID, 10)))
}

// handleList returns every user, or an array of zero or one when the
// username query parameter filters the listing.
func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		h.handleFind(w, r, username)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// handleFind resolves the username filter. An unknown username is an
// empty array, not a 404, matching how the client probes for users.
func (h *UserHandler) handleFind(w http.ResponseWriter, r *http.Request, username string) {
	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if repository.IsNotFound(err) {
			writeJSON(w, http.StatusOK, []*domain.User{})
			return
		}
		h.logger.Error().Err(err).Msg("failed to find user")
		writeError(w, http.StatusInternalServerError, "failed to find user")
		return
	}

	writeJSON(w, http.StatusOK, []*domain.User{user})
}
