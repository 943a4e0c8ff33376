package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	// ErrNotificationIDEmpty is returned when a notification ID is empty or nil.
	ErrNotificationIDEmpty = errors.New("notification ID cannot be empty")

	// ErrNotificationRecipientEmpty is returned when the recipient ID is empty or nil.
	ErrNotificationRecipientEmpty = errors.New("notification recipient ID cannot be empty")

	// ErrNotificationMessageEmpty is returned when the message is empty.
	ErrNotificationMessageEmpty = errors.New("notification message cannot be empty")
)

// Notification is a persisted record of something that happened to a user's
// proposals. Delivery is out of scope; the API only lists records and marks
// them read.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNotification creates an unread Notification for the given recipient.
func NewNotification(recipientID uuid.UUID, message string) (*Notification, error) {
	notification := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}

	if err := notification.Validate(); err != nil {
		return nil, err
	}

	return notification, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNotificationIDEmpty
	}

	if n.RecipientID == uuid.Nil {
		return ErrNotificationRecipientEmpty
	}

	if n.Message == "" {
		return ErrNotificationMessageEmpty
	}

	return nil
}
