package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tradefair/tradefair-api/internal/domain"
)

func TestCapabilities(t *testing.T) {
	t.Parallel()

	proposer := uuid.New()
	currentOwner := uuid.New()
	stranger := uuid.New()

	proposal := &domain.Proposal{
		ID:         uuid.New(),
		ProposerID: proposer,
		ReceiverID: currentOwner,
		Status:     domain.ProposalStatusPending,
	}

	tests := []struct {
		name       string
		identity   domain.Identity
		canView    bool
		canRespond bool
		canCancel  bool
	}{
		{
			name:       "proposer",
			identity:   domain.Identity{ID: proposer},
			canView:    true,
			canRespond: false,
			canCancel:  true,
		},
		{
			name:       "desired item owner",
			identity:   domain.Identity{ID: currentOwner},
			canView:    true,
			canRespond: true,
			canCancel:  false,
		},
		{
			name:       "admin",
			identity:   domain.Identity{ID: stranger, IsAdmin: true},
			canView:    true,
			canRespond: true,
			canCancel:  false,
		},
		{
			name:       "stranger",
			identity:   domain.Identity{ID: stranger},
			canView:    false,
			canRespond: false,
			canCancel:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.canView, canView(tc.identity, proposal, currentOwner), "canView")
			assert.Equal(t, tc.canRespond, canRespond(tc.identity, currentOwner), "canRespond")
			assert.Equal(t, tc.canCancel, canCancel(tc.identity, proposal), "canCancel")
		})
	}
}

// Ownership of the desired item can move between creation and response; the
// recorded receiver loses the ability to respond once the item is theirs no
// longer.
func TestCapabilitiesFollowCurrentOwner(t *testing.T) {
	t.Parallel()

	originalReceiver := uuid.New()
	newOwner := uuid.New()

	proposal := &domain.Proposal{
		ID:         uuid.New(),
		ProposerID: uuid.New(),
		ReceiverID: originalReceiver,
		Status:     domain.ProposalStatusPending,
	}

	assert.False(t, canRespond(domain.Identity{ID: originalReceiver}, newOwner))
	assert.True(t, canRespond(domain.Identity{ID: newOwner}, newOwner))
	assert.False(t, canView(domain.Identity{ID: originalReceiver}, proposal, newOwner))
}
