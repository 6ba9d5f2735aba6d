package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetdesk/booking/internal/notification"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken is the storage constraint surfacing: the (doctor, date,
	// time) triple already has an appointment. Concurrent attempts for the
	// same slot are serialized by the database; exactly one insert commits.
	ErrSlotTaken = errors.New("slot already booked")
)

// Repository contains the DB interactions needed by the appointment service.
// The write methods that accept a notification insert it in the same
// transaction as the appointment row, so a status flip and its notification
// commit together or not at all.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CreatePending(ctx context.Context, a *Appointment, n *notification.Notification) error
	Update(ctx context.Context, a *Appointment, n *notification.Notification) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListUpcoming(ctx context.Context, requesterID uuid.UUID, from time.Time) ([]Appointment, error)
	ListToday(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error)
	ListRequests(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
}

type PgRepository struct {
	pool          *pgxpool.Pool
	notifications notification.Repository
}

func NewPgRepository(pool *pgxpool.Pool, notifications notification.Repository) *PgRepository {
	return &PgRepository{pool: pool, notifications: notifications}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.RequesterID,
		&a.DoctorID,
		&a.PetID,
		&a.Title,
		&a.Reason,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

const apptColumns = `id, requester_id, doctor_id, pet_id, title, reason, appt_date, appt_time, status, created_at`

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreatePending(ctx context.Context, a *Appointment, n *notification.Notification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (id, requester_id, doctor_id, pet_id, title, reason, appt_date, appt_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', now())
		RETURNING created_at
	`, a.ID, a.RequesterID, a.DoctorID, a.PetID, a.Title, a.Reason, a.Date, a.Time).Scan(&a.CreatedAt)
	if err != nil {
		return mapSlotConflict(err)
	}
	a.Status = StatusPending

	if n != nil {
		if err := r.notifications.InsertTx(ctx, tx, n); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, a *Appointment, n *notification.Notification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET title = $2,
		    reason = $3,
		    appt_date = $4,
		    appt_time = $5,
		    status = $6
		WHERE id = $1
	`, a.ID, a.Title, a.Reason, a.Date, a.Time, a.Status)
	if err != nil {
		return mapSlotConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	if n != nil {
		if err := r.notifications.InsertTx(ctx, tx, n); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Appointment, error) {
	return r.list(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE requester_id = $1
		ORDER BY appt_date, appt_time
	`, requesterID)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return r.list(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY appt_date, appt_time
	`, doctorID)
}

func (r *PgRepository) ListUpcoming(ctx context.Context, requesterID uuid.UUID, from time.Time) ([]Appointment, error) {
	return r.list(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE requester_id = $1 AND status = 'accepted' AND appt_date >= $2
		ORDER BY appt_date, appt_time
	`, requesterID, from)
}

func (r *PgRepository) ListToday(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Appointment, error) {
	return r.list(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND status = 'accepted' AND appt_date = $2
		ORDER BY appt_time
	`, doctorID, day)
}

func (r *PgRepository) ListRequests(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return r.list(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND status = 'pending'
		ORDER BY appt_date, appt_time
	`, doctorID)
}

func (r *PgRepository) list(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// mapSlotConflict converts the unique-constraint violation on
// (doctor_id, appt_date, appt_time) into ErrSlotTaken.
func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSlotTaken
	}
	return err
}
