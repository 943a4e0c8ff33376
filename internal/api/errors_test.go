package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/service/auth"
	"github.com/tradefair/tradefair-api/internal/service/trade"
	"github.com/tradefair/tradefair-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},

		{"not item owner", trade.ErrNotItemOwner, http.StatusForbidden},
		{"not receiver", trade.ErrNotReceiver, http.StatusForbidden},
		{"not proposer", trade.ErrNotProposer, http.StatusForbidden},
		{"not visible", trade.ErrNotVisible, http.StatusForbidden},
		{"foreign proposer", trade.ErrForeignProposer, http.StatusForbidden},

		{"item not found", trade.ErrItemNotFound, http.StatusNotFound},
		{"proposal not found", trade.ErrProposalNotFound, http.StatusNotFound},
		{"store not found", store.ErrUserNotFound, http.StatusNotFound},

		{"email exists", store.ErrEmailExists, http.StatusConflict},

		{"self trade", trade.ErrSelfTrade, http.StatusBadRequest},
		{"item unavailable", trade.ErrItemUnavailable, http.StatusBadRequest},
		{"duplicate proposal", trade.ErrDuplicateProposal, http.StatusBadRequest},
		{"counterpart limit", trade.ErrCounterpartLimit, http.StatusBadRequest},
		{"daily quota", trade.ErrDailyQuotaExceeded, http.StatusBadRequest},
		{"proposal resolved", trade.ErrProposalResolved, http.StatusBadRequest},
		{"item no longer available", trade.ErrItemNoLongerAvailable, http.StatusBadRequest},
		{"invalid filter", trade.ErrInvalidFilter, http.StatusBadRequest},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},

		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"nil-adjacent wrapped unknown", fmt.Errorf("wrap: %w", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeUnwrapsServiceErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("accept proposal operation failed: %w", trade.ErrNotReceiver)
	assert.Equal(t, http.StatusForbidden, MapErrorToStatusCode(wrapped))
	assert.Equal(t,
		"Only the owner of the desired item may respond to this proposal",
		GetSafeErrorMessage(wrapped))
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: connection refused on 10.0.0.5:5432")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
