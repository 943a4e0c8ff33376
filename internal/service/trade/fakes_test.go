package trade

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/store"
)

// fakeItemRepo is an in-memory ItemRepository. Methods return copies so
// callers cannot mutate stored state without going through an update.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Item
}

func newFakeItemRepo(items ...*domain.Item) *fakeItemRepo {
	repo := &fakeItemRepo{items: make(map[uuid.UUID]*domain.Item)}
	for _, item := range items {
		copied := *item
		repo.items[item.ID] = &copied
	}
	return repo
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetPairForUpdate(ctx context.Context, a, b uuid.UUID) (*domain.Item, *domain.Item, error) {
	first, err := r.GetByID(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	second, err := r.GetByID(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (r *fakeItemRepo) OwnedIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

func (r *fakeItemRepo) TransferOwnership(ctx context.Context, itemID, fromOwner, toOwner uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return store.ErrItemNotFound
	}
	if item.OwnerID != fromOwner || !item.IsAvailable() {
		return store.ErrUpdateFailed
	}
	item.OwnerID = toOwner
	item.Status = domain.ItemStatusTraded
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeItemRepo) WithTx(tx *sql.Tx) ItemRepository { return r }
func (r *fakeItemRepo) DB() *sql.DB                      { return nil }

// fakeProposalRepo is an in-memory ProposalRepository. It holds a reference
// to the item repo so counterpart counting can resolve current owners.
type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*domain.Proposal
	items     *fakeItemRepo
}

func newFakeProposalRepo(items *fakeItemRepo, proposals ...*domain.Proposal) *fakeProposalRepo {
	repo := &fakeProposalRepo{
		proposals: make(map[uuid.UUID]*domain.Proposal),
		items:     items,
	}
	for _, p := range proposals {
		copied := *p
		repo.proposals[p.ID] = &copied
	}
	return repo
}

func (r *fakeProposalRepo) Create(ctx context.Context, proposal *domain.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *proposal
	r.proposals[proposal.ID] = &copied
	return nil
}

func (r *fakeProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok {
		return nil, store.ErrProposalNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProposalRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProposalRepo) FindMany(ctx context.Context, filter store.ProposalFilter) ([]*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.Proposal
	for _, p := range r.proposals {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ProposerID != uuid.Nil && p.ProposerID != filter.ProposerID {
			continue
		}
		if filter.DesiredItemID != uuid.Nil && p.DesiredItemID != filter.DesiredItemID {
			continue
		}
		if filter.Scope != nil && !scopeMatches(filter.Scope, p) {
			continue
		}
		copied := *p
		results = append(results, &copied)
	}
	return results, nil
}

func scopeMatches(scope *store.ProposalScope, p *domain.Proposal) bool {
	if scope.ProposerID != uuid.Nil && p.ProposerID == scope.ProposerID {
		return true
	}
	for _, id := range scope.DesiredItemIDs {
		if p.DesiredItemID == id {
			return true
		}
	}
	return false
}

func (r *fakeProposalRepo) CountPendingByTriple(ctx context.Context, offeredItemID, desiredItemID, proposerID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.proposals {
		if p.IsPending() &&
			p.OfferedItemID == offeredItemID &&
			p.DesiredItemID == desiredItemID &&
			p.ProposerID == proposerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProposalRepo) CountByCounterpart(ctx context.Context, proposerID, offeredItemID, counterpartID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.proposals {
		if !p.IsPending() || p.ProposerID != proposerID || p.OfferedItemID != offeredItemID {
			continue
		}
		r.items.mu.Lock()
		desired, ok := r.items.items[p.DesiredItemID]
		owner := uuid.Nil
		if ok {
			owner = desired.OwnerID
		}
		r.items.mu.Unlock()
		if owner == counterpartID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProposalRepo) CountCreatedSince(ctx context.Context, proposerID, offeredItemID uuid.UUID, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.proposals {
		if p.ProposerID == proposerID &&
			p.OfferedItemID == offeredItemID &&
			!p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeProposalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, respondedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok {
		return store.ErrProposalNotFound
	}
	p.Status = status
	at := respondedAt
	p.RespondedAt = &at
	return nil
}

func (r *fakeProposalRepo) CancelPendingReferencing(ctx context.Context, excludeID uuid.UUID, itemIDs []uuid.UUID, respondedAt time.Time) ([]*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cancelled []*domain.Proposal
	for _, p := range r.proposals {
		if !p.IsPending() || p.ID == excludeID {
			continue
		}
		references := false
		for _, itemID := range itemIDs {
			if p.References(itemID) {
				references = true
				break
			}
		}
		if !references {
			continue
		}
		p.Status = domain.ProposalStatusCancelled
		at := respondedAt
		p.RespondedAt = &at
		copied := *p
		cancelled = append(cancelled, &copied)
	}
	return cancelled, nil
}

func (r *fakeProposalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[id]; !ok {
		return store.ErrProposalNotFound
	}
	delete(r.proposals, id)
	return nil
}

func (r *fakeProposalRepo) WithTx(tx *sql.Tx) ProposalRepository { return r }

// fakeNotificationRepo records created notifications.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID uuid.UUID) []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			results = append(results, n)
		}
	}
	return results
}

func (r *fakeNotificationRepo) WithTx(tx *sql.Tx) NotificationRepository { return r }

// testEnv bundles a trade service with its fakes.
type testEnv struct {
	service       *tradeService
	items         *fakeItemRepo
	proposals     *fakeProposalRepo
	notifications *fakeNotificationRepo
}

// newTestEnv builds a trade service over in-memory fakes. The transaction
// runner takes a mutex so overlapping calls serialize the way row locks
// would.
func newTestEnv(items ...*domain.Item) *testEnv {
	itemRepo := newFakeItemRepo(items...)
	proposalRepo := newFakeProposalRepo(itemRepo)
	notificationRepo := newFakeNotificationRepo()

	var txMu sync.Mutex
	svc := &tradeService{
		items:         itemRepo,
		proposals:     proposalRepo,
		notifications: notificationRepo,
		limits:        Limits{DailyPerItem: 5, PerCounterpart: 2},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeFunc:      time.Now,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			txMu.Lock()
			defer txMu.Unlock()
			return fn(ctx, nil)
		},
	}
	return &testEnv{
		service:       svc,
		items:         itemRepo,
		proposals:     proposalRepo,
		notifications: notificationRepo,
	}
}

// addProposal seeds a pending proposal directly into the fake store.
func (env *testEnv) addProposal(p *domain.Proposal) {
	env.proposals.mu.Lock()
	defer env.proposals.mu.Unlock()
	copied := *p
	env.proposals.proposals[p.ID] = &copied
}

// itemState reads the stored item, bypassing the service.
func (env *testEnv) itemState(id uuid.UUID) *domain.Item {
	env.items.mu.Lock()
	defer env.items.mu.Unlock()
	copied := *env.items.items[id]
	return &copied
}

// proposalState reads the stored proposal, bypassing the service. Returns
// nil when the proposal no longer exists.
func (env *testEnv) proposalState(id uuid.UUID) *domain.Proposal {
	env.proposals.mu.Lock()
	defer env.proposals.mu.Unlock()
	p, ok := env.proposals.proposals[id]
	if !ok {
		return nil
	}
	copied := *p
	return &copied
}
