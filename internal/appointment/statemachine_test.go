package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/booking/internal/identity"
)

func pendingAppointment() (*Appointment, identity.Identity, identity.Identity) {
	requester := identity.Identity{ID: uuid.New(), Role: identity.RoleUser}
	doctor := identity.Identity{ID: uuid.New(), Role: identity.RoleDoctor}
	a := &Appointment{
		ID:          uuid.New(),
		RequesterID: requester.ID,
		DoctorID:    doctor.ID,
		Status:      StatusPending,
	}
	return a, requester, doctor
}

func TestAuthorizeUpdate_RequesterFields(t *testing.T) {
	a, requester, _ := pendingAppointment()

	assert.NoError(t, AuthorizeUpdate(a, requester, []string{"date", "time", "title", "reason"}))

	err := AuthorizeUpdate(a, requester, []string{"status"})
	var fieldErr *FieldNotPermittedError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "status", fieldErr.Field)
}

func TestAuthorizeUpdate_DoctorFields(t *testing.T) {
	a, _, doctor := pendingAppointment()

	assert.NoError(t, AuthorizeUpdate(a, doctor, []string{"status"}))

	err := AuthorizeUpdate(a, doctor, []string{"status", "title"})
	var fieldErr *FieldNotPermittedError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)
}

func TestAuthorizeUpdate_Stranger(t *testing.T) {
	a, _, _ := pendingAppointment()
	stranger := identity.Identity{ID: uuid.New(), Role: identity.RoleUser}

	assert.ErrorIs(t, AuthorizeUpdate(a, stranger, []string{"title"}), ErrUnauthorized)

	// Admins get no special pass in the update path either.
	admin := identity.Identity{ID: uuid.New(), Role: identity.RoleAdmin}
	assert.ErrorIs(t, AuthorizeUpdate(a, admin, []string{"title"}), ErrUnauthorized)
}

func TestAuthorizeUpdate_TerminalIsImmutable(t *testing.T) {
	for _, status := range []Status{StatusAccepted, StatusRejected, StatusCompleted} {
		a, requester, doctor := pendingAppointment()
		a.Status = status

		// Immutability outranks everything, even each party's allowed set.
		assert.ErrorIs(t, AuthorizeUpdate(a, requester, []string{"title"}), ErrImmutable, status)
		assert.ErrorIs(t, AuthorizeUpdate(a, doctor, []string{"status"}), ErrImmutable, status)
	}
}

func TestAuthorizeDelete(t *testing.T) {
	a, requester, doctor := pendingAppointment()

	assert.NoError(t, AuthorizeDelete(a, requester))
	assert.NoError(t, AuthorizeDelete(a, doctor))

	stranger := identity.Identity{ID: uuid.New(), Role: identity.RoleUser}
	assert.ErrorIs(t, AuthorizeDelete(a, stranger), ErrUnauthorized)

	a.Status = StatusAccepted
	assert.ErrorIs(t, AuthorizeDelete(a, requester), ErrImmutable)
}

func TestValidateTransition(t *testing.T) {
	for _, to := range []Status{StatusAccepted, StatusRejected, StatusCompleted} {
		assert.NoError(t, ValidateTransition(StatusPending, to), to)
	}

	assert.ErrorIs(t, ValidateTransition(StatusPending, StatusPending), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateTransition(StatusAccepted, StatusRejected), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateTransition(StatusCompleted, StatusPending), ErrInvalidTransition)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
}
