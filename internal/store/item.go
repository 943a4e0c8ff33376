package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// ItemFilter narrows an item listing. Zero values mean "no filter".
type ItemFilter struct {
	// Category restricts results to an exact category match.
	Category string

	// Search matches name or description case-insensitively.
	Search string
}

// CategoryFilter narrows the distinct-category listing.
type CategoryFilter struct {
	// IncludeUnavailable also counts categories of traded items.
	IncludeUnavailable bool

	// Search matches category names case-insensitively.
	Search string
}

// ItemStore defines the interface for item data persistence.
type ItemStore interface {
	// Create saves a new item to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetPairForUpdate retrieves two items inside the current transaction,
	// locking their rows. Rows are locked in id order so concurrent accept
	// transactions touching overlapping items cannot deadlock.
	// Returns ErrItemNotFound if either item does not exist.
	//
	// Only meaningful on a transaction-scoped store obtained via WithTx.
	GetPairForUpdate(ctx context.Context, a, b uuid.UUID) (*domain.Item, *domain.Item, error)

	// FindMany retrieves items matching the filter, newest first.
	FindMany(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)

	// OwnedIDs retrieves the ids of every item currently owned by the user.
	OwnedIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

	// Categories retrieves the distinct categories of stored items.
	Categories(ctx context.Context, filter CategoryFilter) ([]string, error)

	// Update saves changes to an existing item's listing data.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.Item) error

	// TransferOwnership conditionally reassigns an item to a new owner and
	// marks it Traded. The update only applies while the item still belongs
	// to fromOwner and is still Available; otherwise ErrUpdateFailed is
	// returned so the caller can abort the surrounding transaction.
	TransferOwnership(ctx context.Context, itemID, fromOwner, toOwner uuid.UUID) error

	// Delete removes an item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist and
	// ErrForeignKeyViolation if proposals still reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ItemStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ItemStore
}
