package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradefair/tradefair-api/internal/api/shared"
	"github.com/tradefair/tradefair-api/internal/store"
)

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userStore store.UserStore, log *slog.Logger) *UserHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		userStore: userStore,
		logger:    log.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /users requests. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !identity.IsAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
		return
	}

	users, err := h.userStore.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, NewUserResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /users/{id} requests.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	userID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Update handles PUT /users/{id} requests. Users may edit their own
// profile; admins may edit anyone's.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	userID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !identity.Is(userID) && !identity.IsAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden, "You may only edit your own profile")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := user.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data")
		return
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Delete handles DELETE /users/{id} requests. Admin only; users still
// owning items or proposals surface as a conflict.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !identity.IsAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
		return
	}
	userID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.userStore.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrForeignKeyViolation) {
			shared.RespondWithError(w, r, http.StatusConflict, "User still has items or proposals")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
