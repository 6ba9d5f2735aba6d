package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/appointment"
	"github.com/vetdesk/booking/internal/identity"
)

func createAppointmentHandler(svc *appointment.Service, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		var petID *uuid.UUID
		if req.PetID != nil {
			id, err := uuid.Parse(*req.PetID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_pet_id", "pet_id must be a valid UUID")
				return
			}
			petID = &id
		}

		date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.Create(r.Context(), actor, appointment.CreateInput{
			DoctorID: doctorID,
			PetID:    petID,
			Title:    req.Title,
			Reason:   req.Reason,
			Date:     date,
			Time:     req.Time,
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return listHandler(svc.List)
}

func upcomingAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return listHandler(svc.Upcoming)
}

func todayAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return listHandler(svc.Today)
}

func appointmentRequestsHandler(svc *appointment.Service) http.HandlerFunc {
	return listHandler(svc.Requests)
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func updateAppointmentHandler(svc *appointment.Service, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		var patch appointment.UpdatePatch
		if req.Date != nil {
			date, err := time.ParseInLocation(dateLayout, *req.Date, time.Local)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			patch.Date = &date
		}
		patch.Time = req.Time
		patch.Title = req.Title
		patch.Reason = req.Reason
		if req.Status != nil {
			status, ok := appointment.ParseStatus(*req.Status)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_status", "status must be one of pending, accepted, rejected, completed")
				return
			}
			patch.Status = &status
		}

		appt, err := svc.Update(r.Context(), actor, id, patch)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			respondServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listHandler(list func(ctx context.Context, actor identity.Identity) ([]appointment.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		appts, err := list(r.Context(), actor)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}
