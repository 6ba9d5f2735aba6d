package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/appointment"
	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/doctor"
	"github.com/vetdesk/booking/internal/notification"
)

const dateLayout = "2006-01-02"

type UpdateAvailabilityRequest struct {
	Bio             string                     `json:"bio"`
	Specialization  string                     `json:"specialization"`
	YearsExperience int                        `json:"years_experience" validate:"gte=0"`
	Address         string                     `json:"address"`
	AvailableDays   []string                   `json:"available_days" validate:"required"`
	AvailableTimes  map[string]json.RawMessage `json:"available_times"`
}

type TimeRangeDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SetDayRequest struct {
	Ranges []TimeRangeDTO `json:"ranges"`
}

type ProfileResponse struct {
	DoctorID        uuid.UUID                                     `json:"doctor_id"`
	Bio             string                                        `json:"bio"`
	Specialization  string                                        `json:"specialization"`
	YearsExperience int                                           `json:"years_experience"`
	Address         string                                        `json:"address"`
	AvailableDays   []availability.Weekday                        `json:"available_days"`
	AvailableTimes  map[availability.Weekday][]availability.TimeRange `json:"available_times"`
	CreatedAt       time.Time                                     `json:"created_at"`
}

func toProfileResponse(p *availability.Profile) ProfileResponse {
	return ProfileResponse{
		DoctorID:        p.DoctorID,
		Bio:             p.Bio,
		Specialization:  p.Specialization,
		YearsExperience: p.YearsExperience,
		Address:         p.Address,
		AvailableDays:   p.Schedule.Days,
		AvailableTimes:  p.Schedule.Times,
		CreatedAt:       p.CreatedAt,
	}
}

type CreateAppointmentRequest struct {
	DoctorID string  `json:"doctor_id" validate:"required,uuid"`
	PetID    *string `json:"pet_id" validate:"omitempty,uuid"`
	Title    string  `json:"title" validate:"max=100"`
	Reason   string  `json:"reason"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string  `json:"time" validate:"required"`
}

type UpdateAppointmentRequest struct {
	Date   *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time   *string `json:"time"`
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Reason *string `json:"reason"`
	Status *string `json:"status"`
}

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	PetID       *uuid.UUID `json:"pet_id,omitempty"`
	Title       string     `json:"title"`
	Reason      string     `json:"reason"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		RequesterID: a.RequesterID,
		DoctorID:    a.DoctorID,
		PetID:       a.PetID,
		Title:       a.Title,
		Reason:      a.Reason,
		Date:        a.Date.Format(dateLayout),
		Time:        a.Time,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

func toAppointmentResponses(appts []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = toAppointmentResponse(&appts[i])
	}
	return out
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Verb      string    `json:"verb"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target"`
	IsRead    bool      `json:"is_read"`
	Timestamp time.Time `json:"timestamp"`
}

func toNotificationResponse(it *notification.Item) NotificationResponse {
	return NotificationResponse{
		ID:        it.ID,
		Verb:      it.Verb,
		Actor:     it.ActorName,
		Target:    it.Target,
		IsRead:    it.IsRead,
		Timestamp: it.CreatedAt,
	}
}

type SubmitApplicationRequest struct {
	Bio            string `json:"bio" validate:"required"`
	Specialization string `json:"specialization" validate:"required,max=100"`
}

type ApplicationResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Bio            string    `json:"bio"`
	Specialization string    `json:"specialization"`
	Status         string    `json:"status"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func toApplicationResponse(app *doctor.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             app.ID,
		UserID:         app.UserID,
		Bio:            app.Bio,
		Specialization: app.Specialization,
		Status:         string(app.Status),
		SubmittedAt:    app.SubmittedAt,
	}
}
