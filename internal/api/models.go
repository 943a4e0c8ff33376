package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// UpdateUserRequest defines the payload for updating a user profile.
type UpdateUserRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the public view of a user. The password hash never
// leaves the server.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user to its API representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// CreateItemRequest defines the payload for listing a new item.
type CreateItemRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"    validate:"required,min=1,max=100"`
	PhotoURL    string `json:"photo_url"   validate:"omitempty,url"`
}

// UpdateItemRequest defines the payload for editing an item's listing data.
// Ownership and availability are never written through this endpoint.
type UpdateItemRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"    validate:"required,min=1,max=100"`
	PhotoURL    string `json:"photo_url"   validate:"omitempty,url"`
}

// CreateProposalRequest defines the payload for creating a trade proposal.
type CreateProposalRequest struct {
	OfferedItemID uuid.UUID `json:"offered_item_id" validate:"required"`
	DesiredItemID uuid.UUID `json:"desired_item_id" validate:"required"`
	Message       string    `json:"message"         validate:"max=1000"`
}
