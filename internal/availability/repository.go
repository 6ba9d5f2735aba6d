package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("doctor profile not found")

// Repository contains the DB interactions needed by the availability service.
type Repository interface {
	GetByDoctor(ctx context.Context, doctorID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	UpdateSchedule(ctx context.Context, doctorID uuid.UUID, s Schedule) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var days []string
	var timesJSON []byte

	err := row.Scan(
		&p.DoctorID,
		&p.Bio,
		&p.Specialization,
		&p.YearsExperience,
		&p.Address,
		&days,
		&timesJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	p.Schedule.Days = make([]Weekday, len(days))
	for i, d := range days {
		p.Schedule.Days[i] = Weekday(d)
	}

	p.Schedule.Times = make(map[Weekday][]TimeRange)
	if len(timesJSON) > 0 {
		if err := json.Unmarshal(timesJSON, &p.Schedule.Times); err != nil {
			return nil, fmt.Errorf("decode available_times: %w", err)
		}
	}

	return &p, nil
}

func (r *PgRepository) GetByDoctor(ctx context.Context, doctorID uuid.UUID) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT doctor_id, bio, specialization, years_experience, address,
		       available_days, available_times, created_at, updated_at
		FROM doctor_profiles
		WHERE doctor_id = $1
	`, doctorID)
	return scanProfile(row)
}

func (r *PgRepository) Upsert(ctx context.Context, p *Profile) error {
	days, timesJSON, err := encodeSchedule(p.Schedule)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor_profiles
			(doctor_id, bio, specialization, years_experience, address,
			 available_days, available_times, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (doctor_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			specialization = EXCLUDED.specialization,
			years_experience = EXCLUDED.years_experience,
			address = EXCLUDED.address,
			available_days = EXCLUDED.available_days,
			available_times = EXCLUDED.available_times,
			updated_at = now()
	`, p.DoctorID, p.Bio, p.Specialization, p.YearsExperience, p.Address, days, timesJSON)
	if err != nil {
		return fmt.Errorf("upsert doctor profile: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdateSchedule(ctx context.Context, doctorID uuid.UUID, s Schedule) error {
	days, timesJSON, err := encodeSchedule(s)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor_profiles
		SET available_days = $2,
		    available_times = $3,
		    updated_at = now()
		WHERE doctor_id = $1
	`, doctorID, days, timesJSON)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func encodeSchedule(s Schedule) ([]string, []byte, error) {
	days := make([]string, len(s.Days))
	for i, d := range s.Days {
		days[i] = string(d)
	}

	times := s.Times
	if times == nil {
		times = map[Weekday][]TimeRange{}
	}
	timesJSON, err := json.Marshal(times)
	if err != nil {
		return nil, nil, fmt.Errorf("encode available_times: %w", err)
	}
	return days, timesJSON, nil
}
