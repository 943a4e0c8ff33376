package trade

import (
	"errors"
	"fmt"
)

// Common error types for the trade service. Handlers map these onto HTTP
// status codes; the messages here are safe to show to clients.
var (
	// ErrItemNotFound indicates a referenced item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrProposalNotFound indicates the proposal does not exist.
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrNotItemOwner indicates the caller does not own the item they are
	// trying to use.
	ErrNotItemOwner = errors.New("item not owned by user")

	// ErrNotReceiver indicates someone other than the desired item's owner
	// tried to respond to a proposal.
	ErrNotReceiver = errors.New("only the desired item's owner may respond to this proposal")

	// ErrNotProposer indicates someone other than the original proposer
	// tried to cancel a proposal.
	ErrNotProposer = errors.New("only the proposer may cancel this proposal")

	// ErrNotVisible indicates the caller may not view the proposal.
	ErrNotVisible = errors.New("proposal not visible to user")

	// ErrForeignProposer indicates a non-admin asked for another user's
	// proposals.
	ErrForeignProposer = errors.New("cannot list another user's proposals")

	// ErrSelfTrade indicates a user proposed a trade for their own item.
	ErrSelfTrade = errors.New("cannot trade for your own item")

	// ErrItemUnavailable indicates an involved item is not Available.
	ErrItemUnavailable = errors.New("item is not available for trade")

	// ErrDuplicateProposal indicates an identical pending proposal already
	// exists.
	ErrDuplicateProposal = errors.New("duplicate proposal")

	// ErrCounterpartLimit indicates the offered item was already used too
	// many times against items of the same counterpart.
	ErrCounterpartLimit = errors.New("item reused against same counterpart too many times")

	// ErrDailyQuotaExceeded indicates the proposer hit the per-item daily
	// proposal quota.
	ErrDailyQuotaExceeded = errors.New("daily per-item proposal quota exceeded")

	// ErrProposalResolved indicates a transition was attempted on a
	// proposal that already left pending.
	ErrProposalResolved = errors.New("proposal is no longer pending")

	// ErrItemNoLongerAvailable indicates a concurrent trade consumed one of
	// the items between validation and commit. Callers can retry against a
	// different item.
	ErrItemNoLongerAvailable = errors.New("item no longer available")

	// ErrInvalidFilter indicates a listing filter value is malformed.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ServiceError wraps errors from the trade service with operation context.
// Consumers differentiate failure kinds with errors.Is on the sentinels
// above instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_proposal")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
