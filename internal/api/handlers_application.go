package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/doctor"
)

func submitApplicationHandler(svc *doctor.Service, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		var req SubmitApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		app, err := svc.Submit(r.Context(), actor, req.Bio, req.Specialization)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toApplicationResponse(app))
	}
}

func decideApplicationHandler(svc *doctor.Service, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_application_id", "id must be a valid UUID")
			return
		}

		var app *doctor.Application
		if approve {
			app, err = svc.Approve(r.Context(), actor, id)
		} else {
			app, err = svc.Reject(r.Context(), actor, id)
		}
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}
