package trade

import (
	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// Capability checks for proposal operations, evaluated per call against the
// desired item's CURRENT owner rather than the receiver recorded at
// creation time. Admins can see and respond to everything; cancellation is
// deliberately proposer-only with no admin override.

// canView reports whether the identity may read the proposal.
func canView(identity domain.Identity, proposal *domain.Proposal, desiredItemOwner uuid.UUID) bool {
	if identity.IsAdmin {
		return true
	}
	return identity.Is(proposal.ProposerID) || identity.Is(desiredItemOwner)
}

// canRespond reports whether the identity may accept or refuse the proposal.
func canRespond(identity domain.Identity, desiredItemOwner uuid.UUID) bool {
	return identity.IsAdmin || identity.Is(desiredItemOwner)
}

// canCancel reports whether the identity may cancel the proposal.
func canCancel(identity domain.Identity, proposal *domain.Proposal) bool {
	return identity.Is(proposal.ProposerID)
}
