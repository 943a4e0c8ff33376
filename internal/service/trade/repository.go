package trade

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/store"
)

// ItemRepository is the slice of item storage the lifecycle engine needs.
type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetPairForUpdate loads and row-locks both items inside the current
	// transaction. Implementations lock in a deterministic order so that
	// overlapping accepts cannot deadlock.
	GetPairForUpdate(ctx context.Context, a, b uuid.UUID) (*domain.Item, *domain.Item, error)

	// OwnedIDs returns the ids of every item currently owned by the user.
	OwnedIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

	// TransferOwnership moves the item to toOwner and marks it Traded, but
	// only if it is still Available and owned by fromOwner. A failed
	// precondition is store.ErrUpdateFailed.
	TransferOwnership(ctx context.Context, itemID, fromOwner, toOwner uuid.UUID) error

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *sql.Tx) ItemRepository

	// DB exposes the underlying handle for transaction management.
	DB() *sql.DB
}

// ProposalRepository is the slice of proposal storage the engine needs.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)

	// GetByIDForUpdate row-locks the proposal inside the current
	// transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)

	FindMany(ctx context.Context, filter store.ProposalFilter) ([]*domain.Proposal, error)

	// CountPendingByTriple counts pending proposals with the exact
	// (offered, desired, proposer) combination.
	CountPendingByTriple(ctx context.Context, offeredItemID, desiredItemID, proposerID uuid.UUID) (int, error)

	// CountByCounterpart counts pending proposals by the proposer offering
	// the same item against items currently owned by the counterpart.
	CountByCounterpart(ctx context.Context, proposerID, offeredItemID, counterpartID uuid.UUID) (int, error)

	// CountCreatedSince counts proposals by the proposer offering the item
	// created at or after the cutoff, regardless of current status.
	CountCreatedSince(ctx context.Context, proposerID, offeredItemID uuid.UUID, since time.Time) (int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, respondedAt time.Time) error

	// CancelPendingReferencing cancels every pending proposal other than
	// excludeID that offers or desires any of the given items, returning
	// the cancelled proposals.
	CancelPendingReferencing(ctx context.Context, excludeID uuid.UUID, itemIDs []uuid.UUID, respondedAt time.Time) ([]*domain.Proposal, error)

	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) ProposalRepository
}

// NotificationRepository records lifecycle notifications for users.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	WithTx(tx *sql.Tx) NotificationRepository
}
