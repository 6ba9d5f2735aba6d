package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/booking/internal/identity"
)

type fakeRepo struct {
	apps    map[uuid.UUID]*Application
	byUser  map[uuid.UUID]uuid.UUID
	applied []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		apps:   make(map[uuid.UUID]*Application),
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeRepo) Insert(_ context.Context, app *Application) error {
	if _, ok := r.byUser[app.UserID]; ok {
		return ErrAlreadySubmitted
	}
	app.Status = ApplicationPending
	app.SubmittedAt = time.Now()
	copied := *app
	r.apps[app.ID] = &copied
	r.byUser[app.UserID] = app.ID
	return nil
}

func (r *fakeRepo) Decide(_ context.Context, id uuid.UUID, to ApplicationStatus, effect ApprovalEffect) (*Application, error) {
	app, ok := r.apps[id]
	if !ok || app.Status != ApplicationPending {
		return nil, ErrApplicationNotFound
	}
	app.Status = to
	if to == ApplicationApproved && effect != nil {
		// The production effect needs a live transaction; the fake only
		// records that it would have run and for whom.
		r.applied = append(r.applied, app.UserID)
	}
	copied := *app
	return &copied, nil
}

var (
	applicant = identity.Identity{ID: uuid.New(), Role: identity.RoleUser}
	admin     = identity.Identity{ID: uuid.New(), Role: identity.RoleAdmin}
)

func TestService_Submit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	app, err := svc.Submit(context.Background(), applicant, "bio", "Surgery")
	require.NoError(t, err)
	assert.Equal(t, ApplicationPending, app.Status)
	assert.Equal(t, applicant.ID, app.UserID)

	_, err = svc.Submit(context.Background(), applicant, "bio again", "Surgery")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestService_Approve(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	app, err := svc.Submit(context.Background(), applicant, "bio", "Surgery")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), applicant, app.ID)
	assert.ErrorIs(t, err, ErrAdminOnly)

	approved, err := svc.Approve(context.Background(), admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, ApplicationApproved, approved.Status)

	// The promotion effect ran for the applicant.
	assert.Equal(t, []uuid.UUID{applicant.ID}, repo.applied)

	// A second decision on the same application fails loudly.
	_, err = svc.Approve(context.Background(), admin, app.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestService_Reject(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	app, err := svc.Submit(context.Background(), applicant, "bio", "Surgery")
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, ApplicationRejected, rejected.Status)

	// Rejection never promotes.
	assert.Empty(t, repo.applied)

	_, err = svc.Reject(context.Background(), admin, app.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestService_Decide_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Approve(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
