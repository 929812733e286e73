package cli

import (
	"fmt"
	"time"

	"food-track/internal/domain/user"
	"food-track/internal/general/jwt"
)

// GenerateUserToken mints a short-lived JWT for a seeded user.
// It uses jwt.Manager and returns the raw token plus the claims.
//
// Keep this package dev/internal only. Do not call it from production code paths.
func GenerateUserToken(secret, userID, roleStr, restaurantID string) (string, jwt.Claims, error) {
	// parse and validate the role
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return "", jwt.Claims{}, fmt.Errorf("invalid role %q: %w", roleStr, err)
	}

	// set up a new JWT manager
	mgr := jwt.NewManager(secret, 2*time.Hour)

	token, claims, err := mgr.IssueUserToken(userID, role, restaurantID)
	if err != nil {
		return "", jwt.Claims{}, err
	}

	return token, *claims, nil
}
