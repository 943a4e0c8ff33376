package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// ProposalFilter narrows a proposal listing. Explicit filters and the
// caller's visibility scope are combined with AND; the scope's own
// conditions combine with OR.
type ProposalFilter struct {
	// Status restricts results to proposals in the given status.
	Status domain.ProposalStatus

	// ProposerID restricts results to proposals made by the given user.
	ProposerID uuid.UUID

	// DesiredItemID restricts results to proposals targeting the given item.
	DesiredItemID uuid.UUID

	// Scope is the caller's visibility scope, computed by the service layer.
	// Nil means unrestricted (admin).
	Scope *ProposalScope
}

// ProposalScope restricts a listing to proposals the caller may see:
// proposals they made, OR proposals desiring one of their items.
type ProposalScope struct {
	ProposerID     uuid.UUID
	DesiredItemIDs []uuid.UUID
}

// ProposalStore defines the interface for proposal data persistence.
type ProposalStore interface {
	// Create saves a new proposal to the store.
	// Returns ErrInvalidEntity if a referenced item or user does not exist.
	Create(ctx context.Context, proposal *domain.Proposal) error

	// GetByID retrieves a proposal by its unique ID.
	// Returns ErrProposalNotFound if the proposal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)

	// GetByIDForUpdate retrieves a proposal and locks its row for the
	// remainder of the current transaction.
	// Returns ErrProposalNotFound if the proposal does not exist.
	//
	// Only meaningful on a transaction-scoped store obtained via WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)

	// FindMany retrieves proposals matching the filter, newest first.
	FindMany(ctx context.Context, filter ProposalFilter) ([]*domain.Proposal, error)

	// CountPendingByTriple counts pending proposals with the exact
	// (offered item, desired item, proposer) combination.
	CountPendingByTriple(ctx context.Context, offeredItemID, desiredItemID, proposerID uuid.UUID) (int, error)

	// CountByCounterpart counts pending proposals by this proposer offering
	// this item whose desired item is currently owned by the given
	// counterpart.
	CountByCounterpart(ctx context.Context, offeredItemID, proposerID, counterpartID uuid.UUID) (int, error)

	// CountCreatedSince counts proposals by this proposer offering this
	// item created at or after the given instant.
	CountCreatedSince(ctx context.Context, offeredItemID, proposerID uuid.UUID, since time.Time) (int, error)

	// UpdateStatus moves a proposal to a terminal status and stamps
	// respondedAt. Returns ErrProposalNotFound if the proposal does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, respondedAt time.Time) error

	// CancelPendingReferencing transitions every pending proposal other than
	// excludeID that references any of the given items (as offered or
	// desired) to cancelled, and returns the proposals it cancelled.
	CancelPendingReferencing(ctx context.Context, excludeID uuid.UUID, itemIDs []uuid.UUID, respondedAt time.Time) ([]*domain.Proposal, error)

	// Delete removes a proposal from the store by its ID.
	// Returns ErrProposalNotFound if the proposal does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProposalStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProposalStore
}
