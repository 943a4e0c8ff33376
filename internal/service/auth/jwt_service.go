// Package auth provides token issuance/verification and password hashing
// for the API. The lifecycle engine never sees tokens; it receives the
// already-verified identity extracted by the middleware.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token fails signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is returned when email/password verification fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// JWTService issues and validates signed access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID, isAdmin bool) (string, error)

	// ValidateToken verifies a token and returns its claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
