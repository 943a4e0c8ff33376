package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProposal(t *testing.T) {
	t.Parallel()

	proposer := uuid.New()
	receiver := uuid.New()
	offered := uuid.New()
	desired := uuid.New()

	t.Run("creates a pending proposal", func(t *testing.T) {
		t.Parallel()
		proposal, err := NewProposal(proposer, receiver, offered, desired, "hi")
		require.NoError(t, err)

		assert.Equal(t, ProposalStatusPending, proposal.Status)
		assert.NotEqual(t, uuid.Nil, proposal.ID)
		assert.Nil(t, proposal.RespondedAt)
		assert.True(t, proposal.IsPending())
	})

	t.Run("rejects offering and desiring the same item", func(t *testing.T) {
		t.Parallel()
		_, err := NewProposal(proposer, receiver, offered, offered, "")
		assert.ErrorIs(t, err, ErrProposalSameItem)
	})

	t.Run("rejects proposer trading with themselves", func(t *testing.T) {
		t.Parallel()
		_, err := NewProposal(proposer, proposer, offered, desired, "")
		assert.ErrorIs(t, err, ErrProposalSelfTrade)
	})

	t.Run("rejects missing ids", func(t *testing.T) {
		t.Parallel()
		_, err := NewProposal(uuid.Nil, receiver, offered, desired, "")
		assert.Error(t, err)

		_, err = NewProposal(proposer, receiver, uuid.Nil, desired, "")
		assert.Error(t, err)
	})
}

func TestProposalTransition(t *testing.T) {
	t.Parallel()

	newPending := func(t *testing.T) *Proposal {
		t.Helper()
		p, err := NewProposal(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "")
		require.NoError(t, err)
		return p
	}

	t.Run("pending moves to any terminal status", func(t *testing.T) {
		t.Parallel()
		for _, target := range []ProposalStatus{
			ProposalStatusAccepted,
			ProposalStatusRefused,
			ProposalStatusCancelled,
		} {
			p := newPending(t)
			at := time.Now()

			require.NoError(t, p.Transition(target, at))
			assert.Equal(t, target, p.Status)
			require.NotNil(t, p.RespondedAt)
			assert.Equal(t, at.UTC(), *p.RespondedAt)
		}
	})

	t.Run("terminal states accept no further transitions", func(t *testing.T) {
		t.Parallel()
		for _, terminal := range []ProposalStatus{
			ProposalStatusAccepted,
			ProposalStatusRefused,
			ProposalStatusCancelled,
		} {
			p := newPending(t)
			require.NoError(t, p.Transition(terminal, time.Now()))

			for _, target := range []ProposalStatus{
				ProposalStatusAccepted,
				ProposalStatusRefused,
				ProposalStatusCancelled,
			} {
				err := p.Transition(target, time.Now())
				assert.ErrorIs(t, err, ErrInvalidTransition,
					"%s -> %s should be rejected", terminal, target)
			}
			assert.Equal(t, terminal, p.Status)
		}
	})

	t.Run("repeating an applied transition is rejected", func(t *testing.T) {
		t.Parallel()
		p := newPending(t)
		require.NoError(t, p.Transition(ProposalStatusAccepted, time.Now()))

		firstRespondedAt := *p.RespondedAt
		err := p.Transition(ProposalStatusAccepted, time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, firstRespondedAt, *p.RespondedAt)
	})

	t.Run("pending is not a transition target", func(t *testing.T) {
		t.Parallel()
		p := newPending(t)
		err := p.Transition(ProposalStatusPending, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestProposalReferences(t *testing.T) {
	t.Parallel()

	offered := uuid.New()
	desired := uuid.New()
	p, err := NewProposal(uuid.New(), uuid.New(), offered, desired, "")
	require.NoError(t, err)

	assert.True(t, p.References(offered))
	assert.True(t, p.References(desired))
	assert.False(t, p.References(uuid.New()))
}

func TestProposalStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []ProposalStatus{
		ProposalStatusPending,
		ProposalStatusAccepted,
		ProposalStatusRefused,
		ProposalStatusCancelled,
	} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, ProposalStatus("Pending").IsValid(), "statuses are case sensitive")
	assert.False(t, ProposalStatus("").IsValid())
}
