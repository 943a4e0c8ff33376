package trade

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/store"
)

// itemRepositoryAdapter bridges store.ItemStore to ItemRepository and
// carries the *sql.DB handle the service uses to open transactions.
type itemRepositoryAdapter struct {
	store store.ItemStore
	db    *sql.DB
}

// NewItemRepositoryAdapter wraps an item store for use by the trade service.
func NewItemRepositoryAdapter(s store.ItemStore, db *sql.DB) ItemRepository {
	return &itemRepositoryAdapter{store: s, db: db}
}

func (a *itemRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return a.store.GetByID(ctx, id)
}

func (a *itemRepositoryAdapter) GetPairForUpdate(ctx context.Context, first, second uuid.UUID) (*domain.Item, *domain.Item, error) {
	return a.store.GetPairForUpdate(ctx, first, second)
}

func (a *itemRepositoryAdapter) OwnedIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return a.store.OwnedIDs(ctx, ownerID)
}

func (a *itemRepositoryAdapter) TransferOwnership(ctx context.Context, itemID, fromOwner, toOwner uuid.UUID) error {
	return a.store.TransferOwnership(ctx, itemID, fromOwner, toOwner)
}

func (a *itemRepositoryAdapter) WithTx(tx *sql.Tx) ItemRepository {
	return &itemRepositoryAdapter{store: a.store.WithTx(tx), db: a.db}
}

func (a *itemRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// proposalRepositoryAdapter bridges store.ProposalStore to
// ProposalRepository.
type proposalRepositoryAdapter struct {
	store store.ProposalStore
}

// NewProposalRepositoryAdapter wraps a proposal store for use by the trade
// service.
func NewProposalRepositoryAdapter(s store.ProposalStore) ProposalRepository {
	return &proposalRepositoryAdapter{store: s}
}

func (a *proposalRepositoryAdapter) Create(ctx context.Context, proposal *domain.Proposal) error {
	return a.store.Create(ctx, proposal)
}

func (a *proposalRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return a.store.GetByID(ctx, id)
}

func (a *proposalRepositoryAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return a.store.GetByIDForUpdate(ctx, id)
}

func (a *proposalRepositoryAdapter) FindMany(ctx context.Context, filter store.ProposalFilter) ([]*domain.Proposal, error) {
	return a.store.FindMany(ctx, filter)
}

func (a *proposalRepositoryAdapter) CountPendingByTriple(ctx context.Context, offeredItemID, desiredItemID, proposerID uuid.UUID) (int, error) {
	return a.store.CountPendingByTriple(ctx, offeredItemID, desiredItemID, proposerID)
}

func (a *proposalRepositoryAdapter) CountByCounterpart(ctx context.Context, proposerID, offeredItemID, counterpartID uuid.UUID) (int, error) {
	return a.store.CountByCounterpart(ctx, offeredItemID, proposerID, counterpartID)
}

func (a *proposalRepositoryAdapter) CountCreatedSince(ctx context.Context, proposerID, offeredItemID uuid.UUID, since time.Time) (int, error) {
	return a.store.CountCreatedSince(ctx, offeredItemID, proposerID, since)
}

func (a *proposalRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, respondedAt time.Time) error {
	return a.store.UpdateStatus(ctx, id, status, respondedAt)
}

func (a *proposalRepositoryAdapter) CancelPendingReferencing(ctx context.Context, excludeID uuid.UUID, itemIDs []uuid.UUID, respondedAt time.Time) ([]*domain.Proposal, error) {
	return a.store.CancelPendingReferencing(ctx, excludeID, itemIDs, respondedAt)
}

func (a *proposalRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.store.Delete(ctx, id)
}

func (a *proposalRepositoryAdapter) WithTx(tx *sql.Tx) ProposalRepository {
	return &proposalRepositoryAdapter{store: a.store.WithTx(tx)}
}

// notificationRepositoryAdapter bridges store.NotificationStore to
// NotificationRepository.
type notificationRepositoryAdapter struct {
	store store.NotificationStore
}

// NewNotificationRepositoryAdapter wraps a notification store for use by
// the trade service.
func NewNotificationRepositoryAdapter(s store.NotificationStore) NotificationRepository {
	return &notificationRepositoryAdapter{store: s}
}

func (a *notificationRepositoryAdapter) Create(ctx context.Context, notification *domain.Notification) error {
	return a.store.Create(ctx, notification)
}

func (a *notificationRepositoryAdapter) WithTx(tx *sql.Tx) NotificationRepository {
	return &notificationRepositoryAdapter{store: a.store.WithTx(tx)}
}
