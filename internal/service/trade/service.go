// Package trade implements the proposal lifecycle engine: proposal
// creation with anti-abuse limits, the accept/refuse/cancel transitions
// including the atomic two-item ownership swap with cascade cancellation,
// and the per-call authorization rules that gate them.
package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// CreateInput carries the caller-supplied fields of a new proposal.
type CreateInput struct {
	OfferedItemID uuid.UUID
	DesiredItemID uuid.UUID
	Message       string
}

// ListFilter narrows a proposal listing. Zero values mean "no filter".
// Non-admins may only set ProposerID to their own id and DesiredItemID to
// an item they own.
type ListFilter struct {
	Status        domain.ProposalStatus
	ProposerID    uuid.UUID
	DesiredItemID uuid.UUID
}

// Limits are the configurable anti-abuse thresholds of proposal creation.
type Limits struct {
	// DailyPerItem caps proposals per proposer per offered item per UTC
	// calendar day.
	DailyPerItem int

	// PerCounterpart caps proposals per proposer per offered item against
	// items of the same counterpart.
	PerCounterpart int
}

// Service governs the trade proposal lifecycle.
//
// Every method receives the authenticated identity and enforces the
// authorization rules itself; handlers never pre-filter.
type Service interface {
	// Create validates and persists a new pending proposal.
	//
	// Preconditions are checked in order, each its own failure: both items
	// exist (ErrItemNotFound); the offered item belongs to the proposer
	// unless the caller is admin (ErrNotItemOwner); the desired item does
	// not belong to the proposer (ErrSelfTrade); both items are Available
	// (ErrItemUnavailable); no pending proposal with the identical
	// (offered, desired, proposer) triple exists (ErrDuplicateProposal);
	// the per-counterpart reuse limit (ErrCounterpartLimit) and the daily
	// per-item quota (ErrDailyQuotaExceeded) are not exhausted.
	Create(ctx context.Context, identity domain.Identity, input CreateInput) (*domain.Proposal, error)

	// Accept executes the trade as a single atomic unit: marks the proposal
	// accepted, swaps item ownership, marks both items Traded, and
	// cascade-cancels every other pending proposal referencing either item.
	//
	// Only the desired item's current owner or an admin may accept
	// (ErrNotReceiver); only pending proposals may be accepted
	// (ErrProposalResolved). A concurrent trade that consumed either item
	// first surfaces as ErrItemNoLongerAvailable.
	Accept(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error)

	// Refuse marks the proposal refused. Same authorization and state rules
	// as Accept; items are untouched.
	Refuse(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error)

	// Cancel deletes a pending proposal. Only the original proposer may
	// cancel (ErrNotProposer, no admin override); resolved proposals cannot
	// be cancelled (ErrProposalResolved).
	Cancel(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) error

	// Get retrieves a proposal the identity is allowed to see: its
	// proposer, the desired item's current owner, or an admin
	// (ErrNotVisible otherwise).
	Get(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error)

	// List retrieves proposals visible to the identity, narrowed by the
	// filter. Asking for another user's proposals without admin rights
	// fails with ErrForeignProposer; filtering on a desired item the caller
	// does not own fails with ErrNotItemOwner.
	List(ctx context.Context, identity domain.Identity, filter ListFilter) ([]*domain.Proposal, error)
}
