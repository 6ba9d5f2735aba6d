package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	recipient uuid.UUID
	payload   []byte
	calls     int
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, recipientID uuid.UUID, payload []byte) error {
	p.calls++
	p.recipient = recipientID
	p.payload = payload
	return p.err
}

func TestDispatcher_AppointmentBooked(t *testing.T) {
	d := NewDispatcher(&capturePublisher{}, zerolog.Nop())
	doctorID, requesterID, apptID := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	n := d.AppointmentBooked(doctorID, requesterID, apptID, "Rex", date, "10:00")

	assert.Equal(t, doctorID, n.RecipientID)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, requesterID, *n.ActorID)
	require.NotNil(t, n.AppointmentID)
	assert.Equal(t, apptID, *n.AppointmentID)
	assert.Equal(t, "booked an appointment", n.Verb)
	assert.Equal(t, "for Rex on 2026-09-07 at 10:00", n.Target)
}

func TestDispatcher_AppointmentBooked_NoPet(t *testing.T) {
	d := NewDispatcher(&capturePublisher{}, zerolog.Nop())
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	n := d.AppointmentBooked(uuid.New(), uuid.New(), uuid.New(), "", date, "10:00")

	assert.Equal(t, "for a pet on 2026-09-07 at 10:00", n.Target)
}

func TestDispatcher_AppointmentDecided(t *testing.T) {
	d := NewDispatcher(&capturePublisher{}, zerolog.Nop())
	requesterID, doctorID := uuid.New(), uuid.New()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	n := d.AppointmentDecided(requesterID, doctorID, uuid.New(), "accepted", date, "10:00")

	assert.Equal(t, requesterID, n.RecipientID)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, doctorID, *n.ActorID)
	assert.Equal(t, "accepted your appointment", n.Verb)
	assert.Equal(t, "on 2026-09-07 at 10:00", n.Target)

	n = d.AppointmentDecided(requesterID, doctorID, uuid.New(), "rejected", date, "10:00")
	assert.Equal(t, "rejected your appointment", n.Verb)
}

func TestDispatcher_Deliver(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDispatcher(pub, zerolog.Nop())

	recipientID := uuid.New()
	actorID := uuid.New()
	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		ActorID:     &actorID,
		Verb:        "booked an appointment",
		Target:      "for Rex on 2026-09-07 at 10:00",
		CreatedAt:   time.Now(),
	}

	d.Deliver(context.Background(), n, "Pat Owner")

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, recipientID, pub.recipient)

	var payload Payload
	require.NoError(t, json.Unmarshal(pub.payload, &payload))
	assert.Equal(t, n.ID, payload.ID)
	assert.Equal(t, "booked an appointment", payload.Verb)
	assert.Equal(t, "Pat Owner", payload.Actor)
	assert.Equal(t, "for Rex on 2026-09-07 at 10:00", payload.Target)
}

func TestDispatcher_DeliverToleratesPushFailure(t *testing.T) {
	pub := &capturePublisher{err: errors.New("redis down")}
	d := NewDispatcher(pub, zerolog.Nop())

	// Deliver never propagates the failure; the stored record is canonical.
	d.Deliver(context.Background(), &Notification{ID: uuid.New(), RecipientID: uuid.New()}, "")
	assert.Equal(t, 1, pub.calls)
}
