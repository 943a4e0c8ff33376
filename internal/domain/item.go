package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemStatus describes whether an item can still take part in trades.
type ItemStatus string

const (
	// ItemStatusAvailable means the item can be offered or desired in
	// new proposals.
	ItemStatusAvailable ItemStatus = "Available"

	// ItemStatusTraded means the item changed hands through an accepted
	// proposal and is no longer tradeable.
	ItemStatusTraded ItemStatus = "Traded"
)

// IsValid reports whether the status is one of the known item statuses.
func (s ItemStatus) IsValid() bool {
	return s == ItemStatusAvailable || s == ItemStatusTraded
}

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when an item ID is empty or nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemNameEmpty is returned when an item's name is empty.
	ErrItemNameEmpty = errors.New("item name cannot be empty")

	// ErrItemCategoryEmpty is returned when an item's category is empty.
	ErrItemCategoryEmpty = errors.New("item category cannot be empty")

	// ErrItemOwnerEmpty is returned when an item's owner ID is empty or nil.
	ErrItemOwnerEmpty = errors.New("item owner ID cannot be empty")
)

// Item represents a physical good listed on the marketplace. Ownership is
// reassigned only by proposal acceptance; everything else about an item is
// plain listing data.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Status      ItemStatus `json:"status"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewItem creates a new Item owned by the given user. New items always
// start out Available.
func NewItem(ownerID uuid.UUID, name, description, category, photoURL string) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Category:    category,
		PhotoURL:    photoURL,
		Status:      ItemStatusAvailable,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.Name == "" {
		return ErrItemNameEmpty
	}

	if i.Category == "" {
		return ErrItemCategoryEmpty
	}

	if i.OwnerID == uuid.Nil {
		return ErrItemOwnerEmpty
	}

	if !i.Status.IsValid() {
		return ErrInvalidItemStatus
	}

	return nil
}

// IsAvailable reports whether the item can take part in a new proposal.
func (i *Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}

// IsOwnedBy reports whether the item currently belongs to the given user.
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.OwnerID == userID
}
