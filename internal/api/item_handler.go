package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradefair/tradefair-api/internal/api/shared"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/store"
)

// ItemHandler handles item listing HTTP requests.
type ItemHandler struct {
	itemStore store.ItemStore
	logger    *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemStore store.ItemStore, log *slog.Logger) *ItemHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ItemHandler")
	}
	return &ItemHandler{
		itemStore: itemStore,
		logger:    log.With(slog.String("component", "item_handler")),
	}
}

// Create handles POST /items requests. New items always start Available and
// belong to the caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := domain.NewItem(identity.ID, req.Name, req.Description, req.Category, req.PhotoURL)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item data")
		return
	}

	if err := h.itemStore.Create(r.Context(), item); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// List handles GET /items requests with optional category and search
// filters.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	filter := store.ItemFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	items, err := h.itemStore.FindMany(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// Get handles GET /items/{id} requests.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	itemID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), itemID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// Update handles PUT /items/{id} requests. Only the owner or an admin may
// edit the listing; status and ownership are not writable here.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	itemID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), itemID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !item.IsOwnedBy(identity.ID) && !identity.IsAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this item")
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Category = req.Category
	item.PhotoURL = req.PhotoURL
	if err := item.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item data")
		return
	}

	if err := h.itemStore.Update(r.Context(), item); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// Delete handles DELETE /items/{id} requests. Items referenced by proposals
// are delete-restricted and surface as a conflict.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	itemID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), itemID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !item.IsOwnedBy(identity.ID) && !identity.IsAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this item")
		return
	}

	if err := h.itemStore.Delete(r.Context(), itemID); err != nil {
		if errors.Is(err, store.ErrForeignKeyViolation) {
			shared.RespondWithError(w, r, http.StatusConflict, "Item is referenced by existing proposals")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
