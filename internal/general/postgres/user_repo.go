package postgres

import (
	"context"
	"errors"
	"fmt"

	"food-track/internal/domain/user"
	"food-track/internal/ports"

	"github.com/jackc/pgx/v5"
)

// UserRepo reads user accounts. Account issuance belongs to the auth
// collaborator; the tracking engine only validates handshakes against it.
type UserRepo struct{}

// NewUserRepo constructs a new UserRepo.
func NewUserRepo() ports.UserRepository {
	return &UserRepo{}
}

// GetByID fetches a user by primary key (uuid). Returns user.ErrNotFound for
// an unknown id.
func (repo *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out user.User
	var role string

	err = tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, email, role, restaurant_id
		FROM users
		WHERE id = $1
	`, id).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.Email, &role, &out.RestaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	out.Role = user.Role(role)

	return &out, nil
}
