package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/service/auth"
	"github.com/tradefair/tradefair-api/internal/service/trade"
	"github.com/tradefair/tradefair-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, trade.ErrNotItemOwner),
		errors.Is(err, trade.ErrNotReceiver),
		errors.Is(err, trade.ErrNotProposer),
		errors.Is(err, trade.ErrNotVisible),
		errors.Is(err, trade.ErrForeignProposer):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, trade.ErrItemNotFound),
		errors.Is(err, trade.ErrProposalNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, trade.ErrSelfTrade),
		errors.Is(err, trade.ErrItemUnavailable),
		errors.Is(err, trade.ErrDuplicateProposal),
		errors.Is(err, trade.ErrCounterpartLimit),
		errors.Is(err, trade.ErrDailyQuotaExceeded),
		errors.Is(err, trade.ErrProposalResolved),
		errors.Is(err, trade.ErrItemNoLongerAvailable),
		errors.Is(err, trade.ErrInvalidFilter),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, trade.ErrNotItemOwner):
		return "You do not own this item"

	case errors.Is(err, trade.ErrNotReceiver):
		return "Only the owner of the desired item may respond to this proposal"

	case errors.Is(err, trade.ErrNotProposer):
		return "Only the proposer may cancel this proposal"

	case errors.Is(err, trade.ErrNotVisible):
		return "You are not allowed to view this proposal"

	case errors.Is(err, trade.ErrForeignProposer):
		return "You may only list your own proposals"

	// Not found errors
	case errors.Is(err, trade.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, trade.ErrProposalNotFound):
		return "Proposal not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, trade.ErrSelfTrade):
		return "You cannot propose a trade for your own item"

	case errors.Is(err, trade.ErrItemUnavailable):
		return "One of the items is not available for trade"

	case errors.Is(err, trade.ErrDuplicateProposal):
		return "An identical pending proposal already exists"

	case errors.Is(err, trade.ErrCounterpartLimit):
		return "You already have too many pending proposals with this item toward this user"

	case errors.Is(err, trade.ErrDailyQuotaExceeded):
		return "Daily proposal limit for this item reached"

	case errors.Is(err, trade.ErrProposalResolved):
		return "This proposal has already been resolved"

	case errors.Is(err, trade.ErrItemNoLongerAvailable):
		return "An item in this proposal is no longer available"

	case errors.Is(err, trade.ErrInvalidFilter):
		return "Invalid filter parameter"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes implementation details from validator
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Validator messages look like:
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "url":
		return "invalid URL"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
