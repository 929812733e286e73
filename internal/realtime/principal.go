package realtime

import (
	"context"
	"errors"
	"net/http"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/user"
	"food-track/internal/general/jwt"
	"food-track/internal/ports"
)

// ErrRoleMismatch is returned when a token's role check fails: the principal
// does not exist for that role, a restaurant token carries no restaurant
// binding, or the role is not recognized.
var ErrRoleMismatch = errors.New("token role not recognized")

// Principal identifies an authenticated tracking connection. The set of
// implementations is closed: Customer, Courier, Restaurant and Admin. Room
// authorization switches over the concrete type, so a new role cannot be
// added without visiting every switch.
type Principal interface {
	principal()
	Label() string
}

// Customer is the person who placed the order.
type Customer struct {
	ID string
}

// Courier is the delivery person, identified by courier id.
type Courier struct {
	ID string
}

// Restaurant is restaurant staff, scoped to one restaurant.
type Restaurant struct {
	UserID       string
	RestaurantID string
}

// Admin is support staff with access to every room.
type Admin struct {
	ID string
}

func (Customer) principal()   {}
func (Courier) principal()    {}
func (Restaurant) principal() {}
func (Admin) principal()      {}

func (Customer) Label() string   { return "customer" }
func (Courier) Label() string    { return "courier" }
func (Restaurant) Label() string { return "restaurant" }
func (Admin) Label() string      { return "admin" }

// Authenticator resolves the handshake request into a Principal. Beyond
// signature validation it confirms the principal still exists for the claimed
// role, so a stale token for a deleted account cannot open a connection.
type Authenticator struct {
	jwtMgr   *jwt.Manager
	uow      ports.UnitOfWork
	users    ports.UserRepository
	couriers ports.CourierRepository
}

// NewAuthenticator creates a handshake authenticator.
func NewAuthenticator(jwtMgr *jwt.Manager, uow ports.UnitOfWork, users ports.UserRepository, couriers ports.CourierRepository) *Authenticator {
	return &Authenticator{jwtMgr: jwtMgr, uow: uow, users: users, couriers: couriers}
}

// FromRequest reads the bearer token from the upgrade request (header or
// query parameter), validates it and maps the claims onto a Principal.
func (a *Authenticator) FromRequest(r *http.Request) (Principal, error) {
	token, err := jwt.FromAuthorization(r)
	if err != nil {
		return nil, err
	}

	claims, err := a.jwtMgr.ParseAndValidate(token)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	switch claims.Role {
	case user.RoleCustomer:
		if err := a.userExists(ctx, claims.Subject, user.RoleCustomer); err != nil {
			return nil, err
		}
		return Customer{ID: claims.Subject}, nil

	case user.RoleCourier:
		if err := a.courierExists(ctx, claims.Subject); err != nil {
			return nil, err
		}
		return Courier{ID: claims.Subject}, nil

	case user.RoleRestaurant:
		// restaurant staff have no implicit binding; the token must carry one
		if claims.RestaurantID == "" {
			return nil, ErrRoleMismatch
		}
		return Restaurant{UserID: claims.Subject, RestaurantID: claims.RestaurantID}, nil

	case user.RoleAdmin:
		if err := a.userExists(ctx, claims.Subject, user.RoleAdmin); err != nil {
			return nil, err
		}
		return Admin{ID: claims.Subject}, nil

	default:
		return nil, ErrRoleMismatch
	}
}

// userExists confirms the account exists and actually holds the claimed role.
func (a *Authenticator) userExists(ctx context.Context, userID string, role user.Role) error {
	var account *user.User
	err := a.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = a.users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrRoleMismatch
		}
		return err
	}
	if account.Role != role {
		return ErrRoleMismatch
	}
	return nil
}

func (a *Authenticator) courierExists(ctx context.Context, courierID string) error {
	err := a.uow.WithinTx(ctx, func(ctx context.Context) error {
		_, err := a.couriers.GetByID(ctx, courierID)
		return err
	})
	if err != nil {
		if errors.Is(err, courier.ErrNotFound) {
			return ErrRoleMismatch
		}
		return err
	}
	return nil
}
