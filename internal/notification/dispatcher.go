package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher pushes a payload toward every live connection of one recipient.
type Publisher interface {
	Publish(ctx context.Context, recipientID uuid.UUID, payload []byte) error
}

// Dispatcher turns appointment events into notification records and, after
// the owning transaction has committed, pushes them to live subscribers.
// Building and delivering are separate steps so the record can be inserted
// inside the same transaction as the appointment write.
type Dispatcher struct {
	pub Publisher
	log zerolog.Logger
}

func NewDispatcher(pub Publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, log: log}
}

// AppointmentBooked builds the doctor-facing record for a fresh booking.
// petName may be empty when the booking has no pet reference.
func (d *Dispatcher) AppointmentBooked(doctorID, requesterID, appointmentID uuid.UUID, petName string, date time.Time, clock string) *Notification {
	subject := "a pet"
	if petName != "" {
		subject = petName
	}

	actor := requesterID
	apptID := appointmentID
	return &Notification{
		ID:            uuid.New(),
		RecipientID:   doctorID,
		ActorID:       &actor,
		Verb:          "booked an appointment",
		Target:        fmt.Sprintf("for %s on %s at %s", subject, date.Format("2006-01-02"), clock),
		AppointmentID: &apptID,
	}
}

// AppointmentDecided builds the requester-facing record for an accept or
// reject decision.
func (d *Dispatcher) AppointmentDecided(requesterID, doctorID, appointmentID uuid.UUID, status string, date time.Time, clock string) *Notification {
	actor := doctorID
	apptID := appointmentID
	return &Notification{
		ID:            uuid.New(),
		RecipientID:   requesterID,
		ActorID:       &actor,
		Verb:          fmt.Sprintf("%s your appointment", status),
		Target:        fmt.Sprintf("on %s at %s", date.Format("2006-01-02"), clock),
		AppointmentID: &apptID,
	}
}

// Deliver pushes a committed notification to live subscribers. Failure is
// tolerated: the persisted record is the source of truth and is read on the
// recipient's next fetch.
func (d *Dispatcher) Deliver(ctx context.Context, n *Notification, actorName string) {
	payload := Payload{
		ID:        n.ID,
		Verb:      n.Verb,
		Actor:     actorName,
		Target:    n.Target,
		Timestamp: n.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		d.log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("marshal notification payload")
		return
	}

	if err := d.pub.Publish(ctx, n.RecipientID, data); err != nil {
		d.log.Warn().Err(err).
			Str("notification_id", n.ID.String()).
			Str("recipient_id", n.RecipientID.String()).
			Msg("live push failed, recipient will read the stored record")
	}
}
