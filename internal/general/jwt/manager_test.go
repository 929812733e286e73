package jwt

import (
	"net/http/httptest"
	"testing"
	"time"

	"food-track/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueAndValidate(t *testing.T) {
	mgr := NewManager(testSecret, time.Hour)

	t.Run("roundtrip keeps subject, role and restaurant binding", func(t *testing.T) {
		token, _, err := mgr.IssueUserToken("user-1", user.RoleRestaurant, "rest-5")
		require.NoError(t, err)

		claims, err := mgr.ParseAndValidate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, user.RoleRestaurant, claims.Role)
		assert.Equal(t, "rest-5", claims.RestaurantID)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, _, err := mgr.IssueUserToken("user-1", user.Role("WIZARD"), "")
		assert.Error(t, err)
	})

	t.Run("expired token reported distinctly", func(t *testing.T) {
		short := NewManager(testSecret, -time.Minute)
		token, _, err := short.IssueUserToken("user-1", user.RoleCustomer, "")
		require.NoError(t, err)

		_, err = mgr.ParseAndValidate(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		other := NewManager("another-secret", time.Hour)
		token, _, err := other.IssueUserToken("user-1", user.RoleCustomer, "")
		require.NoError(t, err)

		_, err = mgr.ParseAndValidate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := mgr.ParseAndValidate("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRoleAllowed(t *testing.T) {
	claims := NewUserClaims("user-1", user.RoleCourier, "", time.Hour)

	assert.NoError(t, RoleAllowed(claims, user.RoleCourier, user.RoleAdmin))
	assert.ErrorIs(t, RoleAllowed(claims, user.RoleRestaurant), ErrRoleForbidden)
}

func TestFromAuthorization(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/orders/1/tracking", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := FromAuthorization(r)
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("token query parameter for handshakes", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track?token=abc123", nil)

		token, err := FromAuthorization(r)
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("missing token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		_, err := FromAuthorization(r)
		assert.ErrorIs(t, err, ErrAuthenticationRequired)
	})
}
