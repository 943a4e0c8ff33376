package domain

import "github.com/google/uuid"

// Identity is the authenticated caller attached to each request by the
// authentication middleware. The core trusts it as-is; token verification
// happens before an Identity ever exists.
type Identity struct {
	ID      uuid.UUID
	IsAdmin bool
}

// Is reports whether the identity belongs to the given user.
func (i Identity) Is(userID uuid.UUID) bool {
	return i.ID == userID
}
