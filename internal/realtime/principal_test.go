package realtime

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/geo"
	"food-track/internal/domain/user"
	"food-track/internal/general/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authUserStore struct {
	users map[string]*user.User
}

func (s *authUserStore) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type authCourierStore struct {
	couriers map[string]*courier.Courier
}

func (s *authCourierStore) GetByID(_ context.Context, id string) (*courier.Courier, error) {
	c, ok := s.couriers[id]
	if !ok {
		return nil, courier.ErrNotFound
	}
	return c, nil
}

func (s *authCourierStore) CreateCourier(context.Context, *courier.Courier) error { return nil }
func (s *authCourierStore) SaveBookkeeping(context.Context, *courier.Courier) error {
	return nil
}
func (s *authCourierStore) UpdateLocation(context.Context, string, geo.Point) error { return nil }

func newAuthFixture() (*Authenticator, *jwt.Manager) {
	mgr := jwt.NewManager("realtime-test-secret", time.Hour)
	users := &authUserStore{users: map[string]*user.User{
		"cust-1":  {ID: "cust-1", Role: user.RoleCustomer},
		"admin-1": {ID: "admin-1", Role: user.RoleAdmin},
	}}
	couriers := &authCourierStore{couriers: map[string]*courier.Courier{
		"cour-1": {ID: "cour-1", Name: "Dana"},
	}}
	return NewAuthenticator(mgr, passthroughUOW{}, users, couriers), mgr
}

func TestAuthenticatorFromRequest(t *testing.T) {
	auth, mgr := newAuthFixture()

	issue := func(t *testing.T, userID string, role user.Role, restaurantID string) string {
		t.Helper()
		token, _, err := mgr.IssueUserToken(userID, role, restaurantID)
		require.NoError(t, err)
		return token
	}

	t.Run("customer claims map to Customer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "cust-1", user.RoleCustomer, ""))

		p, err := auth.FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, Customer{ID: "cust-1"}, p)
		assert.Equal(t, "customer", p.Label())
	})

	t.Run("restaurant claims carry the restaurant binding", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "staff-1", user.RoleRestaurant, "rest-5"))

		p, err := auth.FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, Restaurant{UserID: "staff-1", RestaurantID: "rest-5"}, p)
	})

	t.Run("restaurant token without a binding is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "staff-1", user.RoleRestaurant, ""))

		_, err := auth.FromRequest(r)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("token via query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track?token="+issue(t, "cour-1", user.RoleCourier, ""), nil)

		p, err := auth.FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, Courier{ID: "cour-1"}, p)
	})

	t.Run("unknown courier is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "cour-404", user.RoleCourier, ""))

		_, err := auth.FromRequest(r)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("admin claim must match an admin account", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "admin-1", user.RoleAdmin, ""))

		p, err := auth.FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, Admin{ID: "admin-1"}, p)

		// customer account presenting an admin token
		r = httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+issue(t, "cust-1", user.RoleAdmin, ""))
		_, err = auth.FromRequest(r)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("missing token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/track", nil)
		_, err := auth.FromRequest(r)
		assert.ErrorIs(t, err, jwt.ErrAuthenticationRequired)
	})

	t.Run("foreign token", func(t *testing.T) {
		other := jwt.NewManager("some-other-secret", time.Hour)
		token, _, err := other.IssueUserToken("cust-1", user.RoleCustomer, "")
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/ws/track", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		_, err = auth.FromRequest(r)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
