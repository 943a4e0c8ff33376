package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/platform/logger"
	"github.com/tradefair/tradefair-api/internal/store"
)

// tradeService implements Service over the repository interfaces.
type tradeService struct {
	items         ItemRepository
	proposals     ProposalRepository
	notifications NotificationRepository
	limits        Limits
	logger        *slog.Logger
	timeFunc      func() time.Time

	// runTx executes a function inside a database transaction. Tests swap
	// it for a pass-through.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewService creates the trade service. The limits come from configuration,
// not from package state, so tests and deployments can tune them.
func NewService(
	items ItemRepository,
	proposals ProposalRepository,
	notifications NotificationRepository,
	limits Limits,
	log *slog.Logger,
) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository cannot be nil")
	}
	if proposals == nil {
		return nil, fmt.Errorf("proposal repository cannot be nil")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification repository cannot be nil")
	}
	if limits.DailyPerItem <= 0 {
		return nil, fmt.Errorf("daily proposal limit must be positive, got %d", limits.DailyPerItem)
	}
	if limits.PerCounterpart <= 0 {
		return nil, fmt.Errorf("counterpart proposal limit must be positive, got %d", limits.PerCounterpart)
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &tradeService{
		items:         items,
		proposals:     proposals,
		notifications: notifications,
		limits:        limits,
		logger:        log.With(slog.String("component", "trade_service")),
		timeFunc:      time.Now,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, items.DB(), fn)
		},
	}, nil
}

func (s *tradeService) Create(ctx context.Context, identity domain.Identity, input CreateInput) (*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	offered, err := s.getItem(ctx, input.OfferedItemID)
	if err != nil {
		return nil, newServiceError("create proposal", "offered item lookup failed", err)
	}
	desired, err := s.getItem(ctx, input.DesiredItemID)
	if err != nil {
		return nil, newServiceError("create proposal", "desired item lookup failed", err)
	}

	if !offered.IsOwnedBy(identity.ID) && !identity.IsAdmin {
		return nil, newServiceError("create proposal", "offered item belongs to another user", ErrNotItemOwner)
	}
	if desired.IsOwnedBy(identity.ID) {
		return nil, newServiceError("create proposal", "desired item already belongs to the proposer", ErrSelfTrade)
	}
	if !offered.IsAvailable() {
		return nil, newServiceError("create proposal", "offered item is not available", ErrItemUnavailable)
	}
	if !desired.IsAvailable() {
		return nil, newServiceError("create proposal", "desired item is not available", ErrItemUnavailable)
	}

	pending, err := s.proposals.CountPendingByTriple(ctx, offered.ID, desired.ID, identity.ID)
	if err != nil {
		return nil, newServiceError("create proposal", "duplicate check failed", err)
	}
	if pending > 0 {
		return nil, newServiceError("create proposal", "an identical pending proposal already exists", ErrDuplicateProposal)
	}

	counterpart, err := s.proposals.CountByCounterpart(ctx, identity.ID, offered.ID, desired.OwnerID)
	if err != nil {
		return nil, newServiceError("create proposal", "counterpart limit check failed", err)
	}
	if counterpart >= s.limits.PerCounterpart {
		return nil, newServiceError("create proposal", "too many pending proposals toward this user with this item", ErrCounterpartLimit)
	}

	since := startOfDayUTC(s.timeFunc())
	created, err := s.proposals.CountCreatedSince(ctx, identity.ID, offered.ID, since)
	if err != nil {
		return nil, newServiceError("create proposal", "daily quota check failed", err)
	}
	if created >= s.limits.DailyPerItem {
		return nil, newServiceError("create proposal", "daily proposal quota for this item exhausted", ErrDailyQuotaExceeded)
	}

	proposal, err := domain.NewProposal(identity.ID, desired.OwnerID, offered.ID, desired.ID, input.Message)
	if err != nil {
		return nil, newServiceError("create proposal", "invalid proposal", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.proposals.WithTx(tx).Create(ctx, proposal); err != nil {
			return fmt.Errorf("inserting proposal: %w", err)
		}
		notice, err := domain.NewNotification(desired.OwnerID,
			fmt.Sprintf("You received a trade proposal for your item %q.", desired.Name))
		if err != nil {
			return err
		}
		if err := s.notifications.WithTx(tx).Create(ctx, notice); err != nil {
			return fmt.Errorf("notifying receiver: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, newServiceError("create proposal", "persisting proposal failed", err)
	}

	log.DebugContext(ctx, "proposal created",
		slog.String("proposal_id", proposal.ID.String()),
		slog.String("proposer_id", identity.ID.String()),
		slog.String("receiver_id", desired.OwnerID.String()))
	return proposal, nil
}

func (s *tradeService) Accept(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var accepted *domain.Proposal
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		proposals := s.proposals.WithTx(tx)
		items := s.items.WithTx(tx)
		notifications := s.notifications.WithTx(tx)

		proposal, err := proposals.GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProposalNotFound
			}
			return fmt.Errorf("locking proposal: %w", err)
		}
		if !proposal.IsPending() {
			return ErrProposalResolved
		}

		// Both items are locked in one statement, in deterministic order,
		// so two overlapping accepts serialize instead of deadlocking.
		offered, desired, err := items.GetPairForUpdate(ctx, proposal.OfferedItemID, proposal.DesiredItemID)
		if err != nil {
			return fmt.Errorf("locking items: %w", err)
		}

		if !canRespond(identity, desired.OwnerID) {
			return ErrNotReceiver
		}
		if !offered.IsAvailable() || !desired.IsAvailable() {
			return ErrItemNoLongerAvailable
		}

		now := s.timeFunc().UTC()
		if err := proposal.Transition(domain.ProposalStatusAccepted, now); err != nil {
			return err
		}
		if err := proposals.UpdateStatus(ctx, proposal.ID, domain.ProposalStatusAccepted, now); err != nil {
			return fmt.Errorf("marking proposal accepted: %w", err)
		}

		// Guarded updates re-assert ownership and availability; a row that
		// drifted since the lock surfaces as ErrUpdateFailed.
		if err := items.TransferOwnership(ctx, offered.ID, offered.OwnerID, desired.OwnerID); err != nil {
			if errors.Is(err, store.ErrUpdateFailed) {
				return ErrItemNoLongerAvailable
			}
			return fmt.Errorf("transferring offered item: %w", err)
		}
		if err := items.TransferOwnership(ctx, desired.ID, desired.OwnerID, offered.OwnerID); err != nil {
			if errors.Is(err, store.ErrUpdateFailed) {
				return ErrItemNoLongerAvailable
			}
			return fmt.Errorf("transferring desired item: %w", err)
		}

		cancelled, err := proposals.CancelPendingReferencing(ctx, proposal.ID,
			[]uuid.UUID{proposal.OfferedItemID, proposal.DesiredItemID}, now)
		if err != nil {
			return fmt.Errorf("cancelling competing proposals: %w", err)
		}
		for _, c := range cancelled {
			notice, err := domain.NewNotification(c.ProposerID,
				"One of your pending proposals was cancelled because an item involved was traded.")
			if err != nil {
				return err
			}
			if err := notifications.Create(ctx, notice); err != nil {
				return fmt.Errorf("notifying cancelled proposer: %w", err)
			}
		}

		notice, err := domain.NewNotification(proposal.ProposerID, "Your trade proposal was accepted.")
		if err != nil {
			return err
		}
		if err := notifications.Create(ctx, notice); err != nil {
			return fmt.Errorf("notifying proposer: %w", err)
		}

		accepted = proposal
		log.InfoContext(ctx, "proposal accepted",
			slog.String("proposal_id", proposal.ID.String()),
			slog.Int("cancelled_competing", len(cancelled)))
		return nil
	})
	if err != nil {
		return nil, newServiceError("accept proposal", "accepting proposal failed", err)
	}
	return accepted, nil
}

func (s *tradeService) Refuse(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error) {
	var refused *domain.Proposal
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		proposals := s.proposals.WithTx(tx)

		proposal, err := proposals.GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProposalNotFound
			}
			return fmt.Errorf("locking proposal: %w", err)
		}
		if !proposal.IsPending() {
			return ErrProposalResolved
		}

		desired, err := s.items.WithTx(tx).GetByID(ctx, proposal.DesiredItemID)
		if err != nil {
			return fmt.Errorf("loading desired item: %w", err)
		}
		if !canRespond(identity, desired.OwnerID) {
			return ErrNotReceiver
		}

		now := s.timeFunc().UTC()
		if err := proposal.Transition(domain.ProposalStatusRefused, now); err != nil {
			return err
		}
		if err := proposals.UpdateStatus(ctx, proposal.ID, domain.ProposalStatusRefused, now); err != nil {
			return fmt.Errorf("marking proposal refused: %w", err)
		}

		notice, err := domain.NewNotification(proposal.ProposerID, "Your trade proposal was refused.")
		if err != nil {
			return err
		}
		if err := s.notifications.WithTx(tx).Create(ctx, notice); err != nil {
			return fmt.Errorf("notifying proposer: %w", err)
		}

		refused = proposal
		return nil
	})
	if err != nil {
		return nil, newServiceError("refuse proposal", "refusing proposal failed", err)
	}
	return refused, nil
}

func (s *tradeService) Cancel(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) error {
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		proposals := s.proposals.WithTx(tx)

		proposal, err := proposals.GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProposalNotFound
			}
			return fmt.Errorf("locking proposal: %w", err)
		}
		if !canCancel(identity, proposal) {
			return ErrNotProposer
		}
		if !proposal.IsPending() {
			return ErrProposalResolved
		}
		if err := proposals.Delete(ctx, proposal.ID); err != nil {
			return fmt.Errorf("deleting proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return newServiceError("cancel proposal", "cancelling proposal failed", err)
	}
	return nil
}

func (s *tradeService) Get(ctx context.Context, identity domain.Identity, proposalID uuid.UUID) (*domain.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newServiceError("get proposal", "proposal not found", ErrProposalNotFound)
		}
		return nil, newServiceError("get proposal", "proposal lookup failed", err)
	}

	desired, err := s.getItem(ctx, proposal.DesiredItemID)
	if err != nil {
		return nil, newServiceError("get proposal", "desired item lookup failed", err)
	}
	if !canView(identity, proposal, desired.OwnerID) {
		return nil, newServiceError("get proposal", "proposal is not visible to this user", ErrNotVisible)
	}
	return proposal, nil
}

func (s *tradeService) List(ctx context.Context, identity domain.Identity, filter ListFilter) ([]*domain.Proposal, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, newServiceError("list proposals", fmt.Sprintf("unknown status %q", filter.Status), ErrInvalidFilter)
	}
	if filter.ProposerID != uuid.Nil && !identity.Is(filter.ProposerID) && !identity.IsAdmin {
		return nil, newServiceError("list proposals", "cannot list another user's proposals", ErrForeignProposer)
	}
	if filter.DesiredItemID != uuid.Nil && !identity.IsAdmin {
		item, err := s.getItem(ctx, filter.DesiredItemID)
		if err != nil {
			return nil, newServiceError("list proposals", "desired item lookup failed", err)
		}
		if !item.IsOwnedBy(identity.ID) {
			return nil, newServiceError("list proposals", "desired item belongs to another user", ErrNotItemOwner)
		}
	}

	storeFilter := store.ProposalFilter{
		Status:        filter.Status,
		ProposerID:    filter.ProposerID,
		DesiredItemID: filter.DesiredItemID,
	}
	if !identity.IsAdmin {
		owned, err := s.items.OwnedIDs(ctx, identity.ID)
		if err != nil {
			return nil, newServiceError("list proposals", "loading owned items failed", err)
		}
		storeFilter.Scope = &store.ProposalScope{
			ProposerID:     identity.ID,
			DesiredItemIDs: owned,
		}
	}

	results, err := s.proposals.FindMany(ctx, storeFilter)
	if err != nil {
		return nil, newServiceError("list proposals", "listing proposals failed", err)
	}
	return results, nil
}

// getItem maps the store's not-found sentinel to the service one.
func (s *tradeService) getItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// startOfDayUTC truncates t to midnight UTC. The daily quota window is a
// UTC calendar day, not a rolling 24 hours.
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
