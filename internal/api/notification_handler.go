package api

import (
	"log/slog"
	"net/http"

	"github.com/tradefair/tradefair-api/internal/api/shared"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/store"
)

// NotificationHandler serves a user's trade lifecycle notifications.
type NotificationHandler struct {
	notificationStore store.NotificationStore
	logger            *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationStore store.NotificationStore, log *slog.Logger) *NotificationHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NotificationHandler")
	}
	return &NotificationHandler{
		notificationStore: notificationStore,
		logger:            log.With(slog.String("component", "notification_handler")),
	}
}

// List handles GET /notifications requests, newest first, own only.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationStore.ListByRecipient(r.Context(), identity.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// MarkAllRead handles POST /notifications/read requests.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.notificationStore.MarkAllRead(r.Context(), identity.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
