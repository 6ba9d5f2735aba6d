package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vetdesk/booking/internal/appointment"
	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/doctor"
	"github.com/vetdesk/booking/internal/notification"
	"github.com/vetdesk/booking/internal/pet"
	"github.com/vetdesk/booking/internal/user"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Details string                    `json:"details,omitempty"`
	Fields  []availability.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// respondServiceError maps domain errors onto the HTTP taxonomy: validation
// and availability violations are 400, authorization failures 403, missing
// references 404, and the booked-slot constraint 409 so clients can tell
// "slot just taken" apart from "doctor doesn't work then".
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *availability.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_schedule",
			Details: "schedule validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	var fieldErr *appointment.FieldNotPermittedError
	if errors.As(err, &fieldErr) {
		writeError(w, http.StatusForbidden, "field_not_permitted", fieldErr.Error())
		return
	}

	switch {
	case errors.Is(err, appointment.ErrBadSlotTime):
		writeError(w, http.StatusBadRequest, "bad_time_format", err.Error())
	case errors.Is(err, appointment.ErrPastDate):
		writeError(w, http.StatusBadRequest, "past_date", err.Error())
	case errors.Is(err, appointment.ErrDoctorUnavailable):
		writeError(w, http.StatusBadRequest, "doctor_unavailable_on_day", err.Error())
	case errors.Is(err, appointment.ErrNoSlotsConfigured):
		writeError(w, http.StatusBadRequest, "no_slots_configured", err.Error())
	case errors.Is(err, appointment.ErrTimeOutsideSlots):
		writeError(w, http.StatusBadRequest, "time_outside_slots", err.Error())

	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, doctor.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "application_already_decided", err.Error())
	case errors.Is(err, doctor.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "application_already_submitted", err.Error())

	case errors.Is(err, appointment.ErrImmutable):
		writeError(w, http.StatusForbidden, "immutable_appointment", err.Error())
	case errors.Is(err, appointment.ErrUnauthorized),
		errors.Is(err, appointment.ErrNotPetOwner),
		errors.Is(err, availability.ErrNotProfileOwner),
		errors.Is(err, doctor.ErrAdminOnly):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())

	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, availability.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "doctor_profile_not_found", err.Error())
	case errors.Is(err, pet.ErrPetNotFound):
		writeError(w, http.StatusNotFound, "pet_not_found", err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, notification.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, doctor.ErrApplicationNotFound):
		writeError(w, http.StatusNotFound, "application_not_found", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
