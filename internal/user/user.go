package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetdesk/booking/internal/identity"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      identity.Role
	CreatedAt time.Time
}

// DisplayName is the string shown as the actor of a notification.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, firstname, lastname, role, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
