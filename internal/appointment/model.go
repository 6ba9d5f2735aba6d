package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is defined out of s.
// Everything except pending is terminal.
func (s Status) Terminal() bool {
	return s != StatusPending
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Appointment occupies one (doctor, date, time) slot. Date is a calendar
// date in the server zone; Time is the normalized "HH:MM" slot time. The
// storage layer enforces that the (doctor, date, time) triple is unique.
type Appointment struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	DoctorID    uuid.UUID
	PetID       *uuid.UUID
	Title       string
	Reason      string
	Date        time.Time
	Time        string
	Status      Status
	CreatedAt   time.Time
}
