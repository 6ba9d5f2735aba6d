package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/identity"
)

var ErrNotProfileOwner = errors.New("only the owning doctor may modify this profile")

// Service owns doctor schedules: reads are frequent and unguarded, writes run
// the full validation of the schedule invariants before anything is stored.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ProfileInput is the untyped profile submission; ParseSchedule converts the
// schedule part into its typed form.
type ProfileInput struct {
	Bio             string
	Specialization  string
	YearsExperience int
	Address         string
	AvailableDays   []string
	AvailableTimes  map[string]json.RawMessage
}

// Get returns a doctor's profile with its reconciled schedule.
func (s *Service) Get(ctx context.Context, doctorID uuid.UUID) (*Profile, error) {
	return s.repo.GetByDoctor(ctx, doctorID)
}

// Upsert replaces a doctor's profile wholesale. A schedule that fails any
// invariant is rejected in full; nothing is partially saved. Only the owning
// doctor or an admin may write.
func (s *Service) Upsert(ctx context.Context, actor identity.Identity, doctorID uuid.UUID, in ProfileInput) (*Profile, error) {
	if actor.ID != doctorID && !actor.IsAdmin() {
		return nil, ErrNotProfileOwner
	}
	if actor.ID == doctorID && !actor.IsDoctor() {
		return nil, ErrNotProfileOwner
	}

	schedule, err := ParseSchedule(in.AvailableDays, in.AvailableTimes)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		DoctorID:        doctorID,
		Bio:             in.Bio,
		Specialization:  in.Specialization,
		YearsExperience: in.YearsExperience,
		Address:         in.Address,
		Schedule:        *schedule,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAvailableTimes replaces the stored range list for one weekday wholesale.
// A write for a day the doctor has not declared available would orphan that
// day, and is rejected rather than silently cascading into available_days.
// Replacing with an empty list clears the day and is always allowed.
func (s *Service) SetAvailableTimes(ctx context.Context, actor identity.Identity, doctorID uuid.UUID, day string, ranges []TimeRange) (*Profile, error) {
	if actor.ID != doctorID && !actor.IsAdmin() {
		return nil, ErrNotProfileOwner
	}

	weekday, ok := ParseWeekday(day)
	if !ok {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "day",
			Code:    CodeInvalidDay,
			Message: fmt.Sprintf("%q is not a valid day of the week", day),
		}}}
	}

	normalized, err := NormalizeRanges(weekday, ranges)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if len(normalized) > 0 && !p.Schedule.HasDay(weekday) {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "available_times." + string(weekday),
			Code:    CodeOrphanedTimeSlots,
			Message: fmt.Sprintf("time slots set for %s, which is not in available_days", weekday),
		}}}
	}

	if p.Schedule.Times == nil {
		p.Schedule.Times = make(map[Weekday][]TimeRange)
	}
	if len(normalized) == 0 {
		delete(p.Schedule.Times, weekday)
	} else {
		p.Schedule.Times[weekday] = normalized
	}

	if err := s.repo.UpdateSchedule(ctx, doctorID, p.Schedule); err != nil {
		return nil, err
	}
	return p, nil
}

// GetAvailableTimes returns the stored ranges for one weekday, or an empty
// list when the day has none configured or is not a valid weekday name.
func (s *Service) GetAvailableTimes(ctx context.Context, doctorID uuid.UUID, day string) ([]TimeRange, error) {
	p, err := s.repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	weekday, ok := ParseWeekday(day)
	if !ok {
		return []TimeRange{}, nil
	}
	ranges := p.Schedule.RangesFor(weekday)
	if ranges == nil {
		return []TimeRange{}, nil
	}
	return ranges, nil
}
