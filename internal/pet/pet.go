// Package pet provides the lookup the booking core needs: resolving a pet
// reference to its name and owner. Pet CRUD lives outside this service.
package pet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPetNotFound = errors.New("pet not found")

type Pet struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     string
	Age       int
	CreatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Pet, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Pet, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, species, breed, age, created_at
		FROM pets
		WHERE id = $1
	`, id)

	var p Pet
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return &p, nil
}
