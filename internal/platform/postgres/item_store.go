package postgres

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

// itemColumns is the select list shared by every item query in this store.
const itemColumns = "id, name, description, category, photo_url, status, owner_id, created_at, updated_at"

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ItemStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO items (id, name, description, category, photo_url, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.PhotoURL,
		item.Status,
		item.OwnerID,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("owner not found during item creation",
				slog.String("item_id", item.ID.String()),
				slog.String("owner_id", item.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, item.OwnerID)
		}

		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	log.Info("item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", item.OwnerID.String()))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	return item, nil
}

// GetPairForUpdate implements store.ItemStore.GetPairForUpdate
// Rows are locked in id order so concurrent accept transactions touching
// overlapping items cannot deadlock.
func (s *PostgresItemStore) GetPairForUpdate(ctx context.Context, a, b uuid.UUID) (*domain.Item, *domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM items WHERE id IN ($1, $2) ORDER BY id FOR UPDATE`

	rows, err := s.db.QueryContext(ctx, query, a, b)
	if err != nil {
		log.Error("failed to lock item pair",
			slog.String("error", err.Error()))
		return nil, nil, MapError(err)
	}
	defer closeRows(rows, log)

	found := make(map[uuid.UUID]*domain.Item, 2)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()))
			return nil, nil, MapError(err)
		}
		found[item.ID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, nil, MapError(err)
	}

	first, second := found[a], found[b]
	if first == nil || second == nil {
		return nil, nil, store.ErrItemNotFound
	}

	return first, second, nil
}

// FindMany implements store.ItemStore.FindMany
func (s *PostgresItemStore) FindMany(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildItemQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query items",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

// buildItemQuery translates an ItemFilter into a SQL statement with
// positional arguments. Kept as a pure function so the clause logic is
// testable without a database.
func buildItemQuery(filter store.ItemFilter) (string, []any) {
	query := `SELECT ` + itemColumns + ` FROM items`
	args := []any{}

	where := ""
	appendCond := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if filter.Category != "" {
		args = append(args, filter.Category)
		appendCond(fmt.Sprintf("category = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		appendCond(fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return query + where + " ORDER BY created_at DESC", args
}

// OwnedIDs implements store.ItemStore.OwnedIDs
func (s *PostgresItemStore) OwnedIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM items WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to query owned item ids",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ids, nil
}

// Categories implements store.ItemStore.Categories
// Category names are normalized to lowercase in SQL; presentation casing is
// the API layer's concern.
func (s *PostgresItemStore) Categories(ctx context.Context, filter store.CategoryFilter) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT DISTINCT lower(category) FROM items`
	args := []any{}

	where := ""
	if !filter.IncludeUnavailable {
		where = " WHERE status = 'Available'"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		cond := fmt.Sprintf("category ILIKE $%d", len(args))
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	rows, err := s.db.QueryContext(ctx, query+where+" ORDER BY 1", args...)
	if err != nil {
		log.Error("failed to query categories",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return categories, nil
}

// Update implements store.ItemStore.Update
// Only listing data changes here; status and ownership move exclusively
// through TransferOwnership.
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	item.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE items
		SET name = $1, description = $2, category = $3, photo_url = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		item.Name,
		item.Description,
		item.Category,
		item.PhotoURL,
		item.UpdatedAt,
		item.ID,
	)

	if err != nil {
		log.Error("failed to update item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return err
	}

	log.Info("item updated successfully",
		slog.String("item_id", item.ID.String()))
	return nil
}

// TransferOwnership implements store.ItemStore.TransferOwnership
// The WHERE clause re-checks owner and availability so a concurrent accept
// that already traded the item makes this update match zero rows; the
// resulting ErrUpdateFailed aborts the surrounding transaction.
func (s *PostgresItemStore) TransferOwnership(ctx context.Context, itemID, fromOwner, toOwner uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE items
		SET owner_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5 AND status = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		toOwner,
		domain.ItemStatusTraded,
		time.Now().UTC(),
		itemID,
		fromOwner,
		domain.ItemStatusAvailable,
	)

	if err != nil {
		log.Error("failed to transfer item ownership",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("ownership transfer precondition no longer holds",
			slog.String("item_id", itemID.String()),
			slog.String("from_owner", fromOwner.String()))
		return fmt.Errorf("%w: item %s changed owner or availability", store.ErrUpdateFailed, itemID)
	}

	log.Info("item ownership transferred",
		slog.String("item_id", itemID.String()),
		slog.String("from_owner", fromOwner.String()),
		slog.String("to_owner", toOwner.String()))
	return nil
}

// Delete implements store.ItemStore.Delete
// Returns store.ErrItemNotFound if the item does not exist and
// store.ErrForeignKeyViolation if proposals still reference it.
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("item still referenced by proposals",
				slog.String("item_id", id.String()))
			return fmt.Errorf("%w: item has proposals", store.ErrForeignKeyViolation)
		}
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return err
	}

	log.Info("item deleted successfully",
		slog.String("item_id", id.String()))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one item row using the itemColumns select list.
func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var status string

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.PhotoURL,
		&status,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ItemStatus(status)
	return &item, nil
}
