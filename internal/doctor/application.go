// Package doctor handles doctor applications: a user applies, an admin
// decides, and approval promotes the user's role. The role change is an
// explicit effect applied in the same transaction as the status flip, not a
// hook hidden in the storage layer.
package doctor

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

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

var (
	ErrApplicationNotFound = errors.New("doctor application not found")
	ErrAlreadySubmitted    = errors.New("application already submitted")
	ErrAlreadyDecided      = errors.New("application already decided")
	ErrAdminOnly           = errors.New("only admins can decide applications")
)

type Application struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Bio            string
	Specialization string
	Status         ApplicationStatus
	SubmittedAt    time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	Insert(ctx context.Context, app *Application) error
	Decide(ctx context.Context, id uuid.UUID, to ApplicationStatus, effect ApprovalEffect) (*Application, error)
}

// ApprovalEffect runs inside the decision transaction when an application is
// approved. Keeping it a named function makes the role promotion visible and
// testable on its own.
type ApprovalEffect func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

// PromoteToDoctor is the approval effect used in production: the applicant's
// role becomes doctor.
func PromoteToDoctor(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET role = 'doctor' WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("promote user to doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("promote user to doctor: user %s not found", userID)
	}
	return nil
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, bio, specialization, status, submitted_at
		FROM doctor_applications
		WHERE id = $1
	`, id)
	return scanApplication(row)
}

func (r *PgRepository) Insert(ctx context.Context, app *Application) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO doctor_applications (id, user_id, bio, specialization, status, submitted_at)
		VALUES ($1, $2, $3, $4, 'pending', now())
		ON CONFLICT (user_id) DO NOTHING
		RETURNING submitted_at
	`, app.ID, app.UserID, app.Bio, app.Specialization).Scan(&app.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("insert application: %w", err)
	}
	app.Status = ApplicationPending
	return nil
}

// Decide flips a pending application to the given status. When approving,
// effect runs in the same transaction; a failed effect rolls back the flip.
func (r *PgRepository) Decide(ctx context.Context, id uuid.UUID, to ApplicationStatus, effect ApprovalEffect) (*Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE doctor_applications
		SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING id, user_id, bio, specialization, status, submitted_at
	`, id, to)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			// Either missing or already decided; the caller distinguishes.
			return nil, err
		}
		return nil, err
	}

	if to == ApplicationApproved && effect != nil {
		if err := effect(ctx, tx, app.UserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return app, nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	err := row.Scan(&app.ID, &app.UserID, &app.Bio, &app.Specialization, &app.Status, &app.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Submit(ctx context.Context, actor identity.Identity, bio, specialization string) (*Application, error) {
	app := &Application{
		ID:             uuid.New(),
		UserID:         actor.ID,
		Bio:            bio,
		Specialization: specialization,
	}
	if err := s.repo.Insert(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Approve flips the application and promotes the applicant in one atomic
// unit. Approving an already-decided application fails rather than silently
// re-running the effect.
func (s *Service) Approve(ctx context.Context, actor identity.Identity, id uuid.UUID) (*Application, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	app, err := s.repo.Decide(ctx, id, ApplicationApproved, PromoteToDoctor)
	if err != nil {
		return nil, s.mapDecideErr(ctx, id, err)
	}
	return app, nil
}

func (s *Service) Reject(ctx context.Context, actor identity.Identity, id uuid.UUID) (*Application, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	app, err := s.repo.Decide(ctx, id, ApplicationRejected, nil)
	if err != nil {
		return nil, s.mapDecideErr(ctx, id, err)
	}
	return app, nil
}

// mapDecideErr separates "no such application" from "already decided".
func (s *Service) mapDecideErr(ctx context.Context, id uuid.UUID, err error) error {
	if !errors.Is(err, ErrApplicationNotFound) {
		return err
	}
	if _, getErr := s.repo.GetByID(ctx, id); getErr == nil {
		return ErrAlreadyDecided
	}
	return ErrApplicationNotFound
}
