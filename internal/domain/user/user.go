package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User is the account entity corresponding to the `users` table. Account
// issuance lives outside the tracking engine; the connection authenticator
// only reads users to validate a handshake's claimed role.
type User struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Email string
	Role  Role

	// RestaurantID is set for RESTAURANT staff accounts, nil otherwise.
	RestaurantID *string
}

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email address")
)

// NewUser constructs a User entity. Caller provides the ID (uuid as string).
func NewUser(email string, role Role, restaurantID *string) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := time.Now().UTC()
	return &User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		Role:         role,
		RestaurantID: restaurantID,
	}, nil
}
