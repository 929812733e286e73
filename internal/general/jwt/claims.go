package jwt

import (
	"time"

	"food-track/internal/domain/user"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims defines our canonical JWT claims payload.
type Claims struct {
	Role user.Role `json:"role"` // user role for RBAC (CUSTOMER/COURIER/RESTAURANT/ADMIN)

	// RestaurantID binds RESTAURANT staff tokens to their restaurant.
	RestaurantID string `json:"restaurant_id,omitempty"`

	jwtlib.RegisteredClaims
}

// ensure Claims implements jwtlib.Claims interface
var _ jwtlib.Claims = (*Claims)(nil)

// NewUserClaims constructs end-user claims (customer/courier/restaurant/admin).
func NewUserClaims(userID string, role user.Role, restaurantID string, ttl time.Duration) *Claims {
	now := time.Now().UTC()
	return &Claims{
		Role:         role,
		RestaurantID: restaurantID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
}
