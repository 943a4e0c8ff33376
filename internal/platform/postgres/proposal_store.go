package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/platform/logger"
	"github.com/tradefair/tradefair-api/internal/store"
)

// proposalColumns is the select list shared by every proposal query in
// this store.
const proposalColumns = "id, offered_item_id, desired_item_id, proposer_id, receiver_id, status, message, created_at, responded_at"

// PostgresProposalStore implements the store.ProposalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProposalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProposalStore creates a new PostgreSQL implementation of the
// ProposalStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresProposalStore(db store.DBTX, logger *slog.Logger) *PostgresProposalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProposalStore{
		db:     db,
		logger: logger.With(slog.String("component", "proposal_store")),
	}
}

// Ensure PostgresProposalStore implements store.ProposalStore interface
var _ store.ProposalStore = (*PostgresProposalStore)(nil)

// WithTx implements store.ProposalStore.WithTx
func (s *PostgresProposalStore) WithTx(tx *sql.Tx) store.ProposalStore {
	return &PostgresProposalStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProposalStore.Create
// Returns store.ErrInvalidEntity if a referenced item or user does not exist.
func (s *PostgresProposalStore) Create(ctx context.Context, proposal *domain.Proposal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := proposal.Validate(); err != nil {
		log.Warn("proposal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("proposal_id", proposal.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO proposals (id, offered_item_id, desired_item_id, proposer_id, receiver_id, status, message, created_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		proposal.ID,
		proposal.OfferedItemID,
		proposal.DesiredItemID,
		proposal.ProposerID,
		proposal.ReceiverID,
		proposal.Status,
		proposal.Message,
		proposal.CreatedAt,
		proposal.RespondedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("referenced item or user missing during proposal creation",
				slog.String("proposal_id", proposal.ID.String()))
			return fmt.Errorf("%w: referenced item or user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create proposal",
			slog.String("error", err.Error()),
			slog.String("proposal_id", proposal.ID.String()))
		return MapError(err)
	}

	log.Info("proposal created successfully",
		slog.String("proposal_id", proposal.ID.String()),
		slog.String("proposer_id", proposal.ProposerID.String()),
		slog.String("receiver_id", proposal.ReceiverID.String()))
	return nil
}

// GetByID implements store.ProposalStore.GetByID
// Returns store.ErrProposalNotFound if the proposal does not exist.
func (s *PostgresProposalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByIDForUpdate implements store.ProposalStore.GetByIDForUpdate
// Locks the proposal row for the remainder of the current transaction so
// concurrent responses to the same proposal serialize.
func (s *PostgresProposalStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresProposalStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	proposal, err := scanProposal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProposalNotFound
		}
		log.Error("failed to get proposal",
			slog.String("error", err.Error()),
			slog.String("proposal_id", id.String()))
		return nil, MapError(err)
	}

	return proposal, nil
}

// FindMany implements store.ProposalStore.FindMany
func (s *PostgresProposalStore) FindMany(ctx context.Context, filter store.ProposalFilter) ([]*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildProposalQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query proposals",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	proposals := []*domain.Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			log.Error("failed to scan proposal row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		proposals = append(proposals, proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return proposals, nil
}

// buildProposalQuery translates a ProposalFilter into a SQL statement with
// positional arguments. Explicit filters AND together; the visibility scope
// contributes one OR group. Kept as a pure function so the clause logic is
// testable without a database.
func buildProposalQuery(filter store.ProposalFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}

	if filter.ProposerID != uuid.Nil {
		conds = append(conds, "proposer_id = "+arg(filter.ProposerID))
	}

	if filter.DesiredItemID != uuid.Nil {
		conds = append(conds, "desired_item_id = "+arg(filter.DesiredItemID))
	}

	if filter.Scope != nil {
		scope := []string{}
		if filter.Scope.ProposerID != uuid.Nil {
			scope = append(scope, "proposer_id = "+arg(filter.Scope.ProposerID))
		}
		for _, itemID := range filter.Scope.DesiredItemIDs {
			scope = append(scope, "desired_item_id = "+arg(itemID))
		}
		if len(scope) > 0 {
			conds = append(conds, "("+strings.Join(scope, " OR ")+")")
		}
	}

	query := `SELECT ` + proposalColumns + ` FROM proposals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	return query + " ORDER BY created_at DESC", args
}

// CountPendingByTriple implements store.ProposalStore.CountPendingByTriple
func (s *PostgresProposalStore) CountPendingByTriple(ctx context.Context, offeredItemID, desiredItemID, proposerID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM proposals
		WHERE offered_item_id = $1 AND desired_item_id = $2 AND proposer_id = $3 AND status = $4
	`
	return s.count(ctx, query, offeredItemID, desiredItemID, proposerID, domain.ProposalStatusPending)
}

// CountByCounterpart implements store.ProposalStore.CountByCounterpart
// The desired item's CURRENT owner decides the counterpart, so the join
// resolves ownership at query time rather than trusting receiver_id.
func (s *PostgresProposalStore) CountByCounterpart(ctx context.Context, offeredItemID, proposerID, counterpartID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM proposals p
		JOIN items d ON d.id = p.desired_item_id
		WHERE p.offered_item_id = $1 AND p.proposer_id = $2 AND d.owner_id = $3 AND p.status = $4
	`
	return s.count(ctx, query, offeredItemID, proposerID, counterpartID, domain.ProposalStatusPending)
}

// CountCreatedSince implements store.ProposalStore.CountCreatedSince
func (s *PostgresProposalStore) CountCreatedSince(ctx context.Context, offeredItemID, proposerID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM proposals
		WHERE offered_item_id = $1 AND proposer_id = $2 AND created_at >= $3
	`
	return s.count(ctx, query, offeredItemID, proposerID, since)
}

func (s *PostgresProposalStore) count(ctx context.Context, query string, args ...any) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Error("failed to count proposals",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return n, nil
}

// UpdateStatus implements store.ProposalStore.UpdateStatus
// Returns store.ErrProposalNotFound if the proposal does not exist.
func (s *PostgresProposalStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, respondedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE proposals
		SET status = $1, responded_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, respondedAt.UTC(), id)
	if err != nil {
		log.Error("failed to update proposal status",
			slog.String("error", err.Error()),
			slog.String("proposal_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "proposal"); err != nil {
		return err
	}

	log.Info("proposal status updated",
		slog.String("proposal_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// CancelPendingReferencing implements store.ProposalStore.CancelPendingReferencing
// The RETURNING clause hands back the cancelled rows so the caller can
// notify their proposers inside the same transaction.
func (s *PostgresProposalStore) CancelPendingReferencing(ctx context.Context, excludeID uuid.UUID, itemIDs []uuid.UUID, respondedAt time.Time) ([]*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(itemIDs) == 0 {
		return []*domain.Proposal{}, nil
	}

	placeholders := make([]string, 0, len(itemIDs))
	args := []any{domain.ProposalStatusCancelled, respondedAt.UTC(), domain.ProposalStatusPending, excludeID}
	for _, itemID := range itemIDs {
		args = append(args, itemID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	in := strings.Join(placeholders, ", ")

	query := fmt.Sprintf(`
		UPDATE proposals
		SET status = $1, responded_at = $2
		WHERE status = $3 AND id <> $4
		  AND (offered_item_id IN (%s) OR desired_item_id IN (%s))
		RETURNING %s
	`, in, in, proposalColumns)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to cascade-cancel proposals",
			slog.String("error", err.Error()),
			slog.String("accepted_proposal_id", excludeID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	cancelled := []*domain.Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			log.Error("failed to scan cancelled proposal row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cancelled = append(cancelled, proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Info("cascade-cancelled competing proposals",
		slog.String("accepted_proposal_id", excludeID.String()),
		slog.Int("count", len(cancelled)))
	return cancelled, nil
}

// Delete implements store.ProposalStore.Delete
// Returns store.ErrProposalNotFound if the proposal does not exist.
func (s *PostgresProposalStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete proposal",
			slog.String("error", err.Error()),
			slog.String("proposal_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "proposal"); err != nil {
		return err
	}

	log.Info("proposal deleted",
		slog.String("proposal_id", id.String()))
	return nil
}

// scanProposal reads one proposal row using the proposalColumns select list.
func scanProposal(row rowScanner) (*domain.Proposal, error) {
	var proposal domain.Proposal
	var status string
	var respondedAt sql.NullTime

	err := row.Scan(
		&proposal.ID,
		&proposal.OfferedItemID,
		&proposal.DesiredItemID,
		&proposal.ProposerID,
		&proposal.ReceiverID,
		&status,
		&proposal.Message,
		&proposal.CreatedAt,
		&respondedAt,
	)
	if err != nil {
		return nil, err
	}

	proposal.Status = domain.ProposalStatus(status)
	if respondedAt.Valid {
		t := respondedAt.Time
		proposal.RespondedAt = &t
	}

	return &proposal, nil
}
