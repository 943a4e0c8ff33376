package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByRecipient retrieves a user's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*domain.Notification, error)

	// MarkAllRead flags every unread notification of the user as read.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error

	// WithTx returns a new NotificationStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) NotificationStore
}
