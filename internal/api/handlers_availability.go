package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/availability"
)

func getAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		p, err := svc.Get(r.Context(), doctorID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func getDayAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		ranges, err := svc.GetAvailableTimes(r.Context(), doctorID, chi.URLParam(r, "day"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ranges)
	}
}

func upsertAvailabilityHandler(svc *availability.Service, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		var req UpdateAvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		p, err := svc.Upsert(r.Context(), actor, actor.ID, availability.ProfileInput{
			Bio:             req.Bio,
			Specialization:  req.Specialization,
			YearsExperience: req.YearsExperience,
			Address:         req.Address,
			AvailableDays:   req.AvailableDays,
			AvailableTimes:  req.AvailableTimes,
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func setDayAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		var req SetDayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		ranges := make([]availability.TimeRange, len(req.Ranges))
		for i, tr := range req.Ranges {
			ranges[i] = availability.TimeRange{From: tr.From, To: tr.To}
		}

		p, err := svc.SetAvailableTimes(r.Context(), actor, actor.ID, chi.URLParam(r, "day"), ranges)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}
