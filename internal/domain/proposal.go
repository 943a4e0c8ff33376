package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProposalStatus describes where a proposal is in its lifecycle.
type ProposalStatus string

const (
	// ProposalStatusPending means the proposal awaits a response from the
	// receiver. Pending is the only state a proposal can leave.
	ProposalStatusPending ProposalStatus = "pending"

	// ProposalStatusAccepted means the receiver accepted and the item swap
	// was committed.
	ProposalStatusAccepted ProposalStatus = "accepted"

	// ProposalStatusRefused means the receiver declined the proposal.
	ProposalStatusRefused ProposalStatus = "refused"

	// ProposalStatusCancelled means the proposal was invalidated because a
	// sibling proposal referencing one of its items was accepted.
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// IsValid reports whether the status is one of the known proposal statuses.
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted,
		ProposalStatusRefused, ProposalStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the proposal lifecycle.
func (s ProposalStatus) IsTerminal() bool {
	return s.IsValid() && s != ProposalStatusPending
}

// Proposal-specific validation errors
var (
	// ErrProposalIDEmpty is returned when a proposal ID is empty or nil.
	ErrProposalIDEmpty = errors.New("proposal ID cannot be empty")

	// ErrProposalItemEmpty is returned when a referenced item ID is empty or nil.
	ErrProposalItemEmpty = errors.New("proposal item references cannot be empty")

	// ErrProposalSameItem is returned when a proposal offers and desires
	// the same item.
	ErrProposalSameItem = errors.New("offered and desired items must differ")

	// ErrProposalProposerEmpty is returned when the proposer ID is empty or nil.
	ErrProposalProposerEmpty = errors.New("proposal proposer ID cannot be empty")

	// ErrProposalReceiverEmpty is returned when the receiver ID is empty or nil.
	ErrProposalReceiverEmpty = errors.New("proposal receiver ID cannot be empty")

	// ErrProposalSelfTrade is returned when proposer and receiver are the
	// same user.
	ErrProposalSelfTrade = errors.New("proposer and receiver must differ")
)

// Proposal is a request by one user (the proposer) to swap an item they own
// for an item owned by another user (the receiver). The receiver is pinned to
// the desired item's owner at creation time.
//
// A proposal is immutable once its status leaves pending, except for
// RespondedAt which is set exactly once at the transition.
type Proposal struct {
	ID            uuid.UUID      `json:"id"`
	OfferedItemID uuid.UUID      `json:"offered_item_id"`
	DesiredItemID uuid.UUID      `json:"desired_item_id"`
	ProposerID    uuid.UUID      `json:"proposer_id"`
	ReceiverID    uuid.UUID      `json:"receiver_id"`
	Status        ProposalStatus `json:"status"`
	Message       string         `json:"message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	RespondedAt   *time.Time     `json:"responded_at,omitempty"`
}

// NewProposal creates a pending Proposal for the given item pair. The
// receiver must be the desired item's owner at creation time; the lifecycle
// engine is responsible for looking it up.
func NewProposal(proposerID, receiverID, offeredItemID, desiredItemID uuid.UUID, message string) (*Proposal, error) {
	proposal := &Proposal{
		ID:            uuid.New(),
		OfferedItemID: offeredItemID,
		DesiredItemID: desiredItemID,
		ProposerID:    proposerID,
		ReceiverID:    receiverID,
		Status:        ProposalStatusPending,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
	}

	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	return proposal, nil
}

// Validate checks if the Proposal has valid data.
// Returns an error if any field fails validation.
func (p *Proposal) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProposalIDEmpty
	}

	if p.OfferedItemID == uuid.Nil || p.DesiredItemID == uuid.Nil {
		return ErrProposalItemEmpty
	}

	if p.OfferedItemID == p.DesiredItemID {
		return ErrProposalSameItem
	}

	if p.ProposerID == uuid.Nil {
		return ErrProposalProposerEmpty
	}

	if p.ReceiverID == uuid.Nil {
		return ErrProposalReceiverEmpty
	}

	if p.ProposerID == p.ReceiverID {
		return ErrProposalSelfTrade
	}

	if !p.Status.IsValid() {
		return ErrInvalidProposalStatus
	}

	return nil
}

// IsPending reports whether the proposal still awaits a response.
func (p *Proposal) IsPending() bool {
	return p.Status == ProposalStatusPending
}

// References reports whether the proposal involves the given item on
// either side of the trade.
func (p *Proposal) References(itemID uuid.UUID) bool {
	return p.OfferedItemID == itemID || p.DesiredItemID == itemID
}

// Transition moves the proposal to a terminal status and stamps RespondedAt.
// Only pending proposals may transition; everything else fails with
// ErrInvalidTransition, including repeats of an already-applied transition.
func (p *Proposal) Transition(to ProposalStatus, at time.Time) error {
	if !to.IsTerminal() {
		return ErrInvalidTransition
	}

	if p.Status != ProposalStatusPending {
		return ErrInvalidTransition
	}

	at = at.UTC()
	p.Status = to
	p.RespondedAt = &at
	return nil
}
