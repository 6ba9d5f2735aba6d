package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the durable record of something that happened to an
// appointment, addressed to one recipient. The appointment back-reference is
// weak: it is nulled if the appointment is removed.
type Notification struct {
	ID            uuid.UUID
	RecipientID   uuid.UUID
	ActorID       *uuid.UUID
	Verb          string
	Target        string
	AppointmentID *uuid.UUID
	IsRead        bool
	CreatedAt     time.Time
}

// Item is a notification as read back for display, with the actor resolved
// to a display string.
type Item struct {
	Notification
	ActorName string
}

// Payload is the JSON shape pushed to a live subscriber.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Verb      string    `json:"verb"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}
