package appointment

import (
	"errors"
	"fmt"

	"github.com/vetdesk/booking/internal/identity"
)

var (
	ErrImmutable         = errors.New("only pending appointments can be modified")
	ErrUnauthorized      = errors.New("you do not have permission to modify this appointment")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// FieldNotPermittedError names the field an actor tried to change outside
// their allowed set.
type FieldNotPermittedError struct {
	Field string
}

func (e *FieldNotPermittedError) Error() string {
	return fmt.Sprintf("you cannot update the %q field", e.Field)
}

// Per-role allowed field sets while an appointment is pending. The requester
// may reshape the booking; the doctor may only decide it.
var (
	requesterFields = map[string]bool{"date": true, "time": true, "title": true, "reason": true}
	doctorFields    = map[string]bool{"status": true}
)

// AuthorizeUpdate applies the transition table: pending appointments accept
// field changes from their two parties only, each within their role's
// allowed set; anything non-pending is immutable to everyone.
func AuthorizeUpdate(a *Appointment, actor identity.Identity, fields []string) error {
	if a.Status.Terminal() {
		return ErrImmutable
	}

	var allowed map[string]bool
	switch actor.ID {
	case a.RequesterID:
		allowed = requesterFields
	case a.DoctorID:
		allowed = doctorFields
	default:
		return ErrUnauthorized
	}

	for _, f := range fields {
		if !allowed[f] {
			return &FieldNotPermittedError{Field: f}
		}
	}
	return nil
}

// AuthorizeDelete permits either party to remove a still-pending appointment.
func AuthorizeDelete(a *Appointment, actor identity.Identity) error {
	if a.Status.Terminal() {
		return ErrImmutable
	}
	if actor.ID != a.RequesterID && actor.ID != a.DoctorID {
		return ErrUnauthorized
	}
	return nil
}

// ValidateTransition allows pending to move to any terminal status and
// nothing else.
func ValidateTransition(from, to Status) error {
	if from != StatusPending || !to.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
