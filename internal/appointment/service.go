package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/identity"
	"github.com/vetdesk/booking/internal/notification"
	"github.com/vetdesk/booking/internal/pet"
	"github.com/vetdesk/booking/internal/user"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrNotPetOwner    = errors.New("you can only book appointments for your own pets")
)

// Service orchestrates booking and lifecycle operations. Every mutation takes
// the acting identity explicitly and runs the slot validation, the state
// machine, and the transactional notification pairing in one place.
type Service struct {
	repo       Repository
	profiles   availability.Repository
	users      user.Repository
	pets       pet.Repository
	dispatcher *notification.Dispatcher
	now        func() time.Time
}

func NewService(
	repo Repository,
	profiles availability.Repository,
	users user.Repository,
	pets pet.Repository,
	dispatcher *notification.Dispatcher,
) *Service {
	return &Service{
		repo:       repo,
		profiles:   profiles,
		users:      users,
		pets:       pets,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

type CreateInput struct {
	DoctorID uuid.UUID
	PetID    *uuid.UUID
	Title    string
	Reason   string
	Date     time.Time
	Time     string
}

// Create books a pending appointment for the actor. The slot must fall
// inside the doctor's availability; whether it is free is decided by the
// storage constraint at commit, surfaced as ErrSlotTaken. On success exactly
// one notification for the doctor exists, committed with the appointment,
// and a live push has been attempted.
func (s *Service) Create(ctx context.Context, actor identity.Identity, in CreateInput) (*Appointment, error) {
	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if doctor.Role != identity.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	profile, err := s.profiles.GetByDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	var petName string
	if in.PetID != nil {
		p, err := s.pets.GetByID(ctx, *in.PetID)
		if err != nil {
			return nil, err
		}
		if p.OwnerID != actor.ID {
			return nil, ErrNotPetOwner
		}
		petName = p.Name
	}

	if err := ValidateSlot(profile.Schedule, in.Date, in.Time, s.now()); err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:          uuid.New(),
		RequesterID: actor.ID,
		DoctorID:    in.DoctorID,
		PetID:       in.PetID,
		Title:       in.Title,
		Reason:      in.Reason,
		Date:        in.Date,
		Time:        in.Time,
		Status:      StatusPending,
	}

	n := s.dispatcher.AppointmentBooked(a.DoctorID, a.RequesterID, a.ID, petName, a.Date, a.Time)

	if err := s.repo.CreatePending(ctx, a, n); err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(ctx, n, s.displayName(ctx, actor.ID))

	return a, nil
}

// UpdatePatch carries the fields an update names; nil means untouched.
type UpdatePatch struct {
	Date   *time.Time
	Time   *string
	Title  *string
	Reason *string
	Status *Status
}

func (p UpdatePatch) fields() []string {
	var fields []string
	if p.Date != nil {
		fields = append(fields, "date")
	}
	if p.Time != nil {
		fields = append(fields, "time")
	}
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Reason != nil {
		fields = append(fields, "reason")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

// Update applies a state-machine-governed change. Requester edits to date or
// time re-run the slot validation; a doctor's accept/reject commits together
// with the requester's notification and is pushed after commit.
func (s *Service) Update(ctx context.Context, actor identity.Identity, id uuid.UUID, patch UpdatePatch) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeUpdate(a, actor, patch.fields()); err != nil {
		return nil, err
	}

	var decided *notification.Notification

	if patch.Status != nil {
		if err := ValidateTransition(a.Status, *patch.Status); err != nil {
			return nil, err
		}
		a.Status = *patch.Status
		if a.Status == StatusAccepted || a.Status == StatusRejected {
			decided = s.dispatcher.AppointmentDecided(a.RequesterID, a.DoctorID, a.ID, string(a.Status), a.Date, a.Time)
		}
	}

	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Reason != nil {
		a.Reason = *patch.Reason
	}

	if patch.Date != nil || patch.Time != nil {
		if patch.Date != nil {
			a.Date = *patch.Date
		}
		if patch.Time != nil {
			a.Time = *patch.Time
		}
		profile, err := s.profiles.GetByDoctor(ctx, a.DoctorID)
		if err != nil {
			return nil, err
		}
		if err := ValidateSlot(profile.Schedule, a.Date, a.Time, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, a, decided); err != nil {
		return nil, err
	}

	if decided != nil {
		s.dispatcher.Deliver(ctx, decided, s.displayName(ctx, a.DoctorID))
	}

	return a, nil
}

// Delete removes a still-pending appointment on behalf of either party.
func (s *Service) Delete(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeDelete(a, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, actor identity.Identity, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != a.RequesterID && actor.ID != a.DoctorID && !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return a, nil
}

// List returns the actor's appointments: a doctor sees their calendar,
// everyone else sees what they requested.
func (s *Service) List(ctx context.Context, actor identity.Identity) ([]Appointment, error) {
	if actor.IsDoctor() {
		return s.repo.ListByDoctor(ctx, actor.ID)
	}
	return s.repo.ListByRequester(ctx, actor.ID)
}

// Upcoming returns the actor's accepted appointments from today onward.
func (s *Service) Upcoming(ctx context.Context, actor identity.Identity) ([]Appointment, error) {
	return s.repo.ListUpcoming(ctx, actor.ID, dateOnly(s.now()))
}

// Today returns the doctor's accepted appointments for today.
func (s *Service) Today(ctx context.Context, actor identity.Identity) ([]Appointment, error) {
	if !actor.IsDoctor() {
		return nil, fmt.Errorf("%w: only doctors can view today's appointments", ErrUnauthorized)
	}
	return s.repo.ListToday(ctx, actor.ID, dateOnly(s.now()))
}

// Requests returns the doctor's pending appointment requests.
func (s *Service) Requests(ctx context.Context, actor identity.Identity) ([]Appointment, error) {
	if !actor.IsDoctor() {
		return nil, fmt.Errorf("%w: only doctors can view appointment requests", ErrUnauthorized)
	}
	return s.repo.ListRequests(ctx, actor.ID)
}

func (s *Service) displayName(ctx context.Context, id uuid.UUID) string {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return u.DisplayName()
}
