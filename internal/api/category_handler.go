package api

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/tradefair/tradefair-api/internal/api/shared"
	"github.com/tradefair/tradefair-api/internal/store"
)

// AllCategoriesSentinel is always the first entry of the category listing
// and stands for "no category filter" in clients.
const AllCategoriesSentinel = "TODOS"

// CategoryHandler serves the distinct category names of available items.
type CategoryHandler struct {
	itemStore store.ItemStore
	logger    *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(itemStore store.ItemStore, log *slog.Logger) *CategoryHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}
	return &CategoryHandler{
		itemStore: itemStore,
		logger:    log.With(slog.String("component", "category_handler")),
	}
}

// List handles GET /categories requests. Categories are deduplicated
// case-insensitively and returned capitalized, with the all-categories
// sentinel first.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	filter := store.CategoryFilter{
		Search: r.URL.Query().Get("search"),
	}

	raw, err := h.itemStore.Categories(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	categories := make([]string, 0, len(raw)+1)
	categories = append(categories, AllCategoriesSentinel)
	for _, c := range raw {
		categories = append(categories, capitalize(c))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// capitalize upper-cases the first rune of each word.
func capitalize(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
