package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vetdesk/booking/internal/notification"
)

// The original UI shows the latest twenty notifications.
const notificationListLimit = 20

func listNotificationsHandler(repo notification.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		items, err := repo.ListByRecipient(r.Context(), actor.ID, notificationListLimit)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]NotificationResponse, len(items))
		for i := range items {
			out[i] = toNotificationResponse(&items[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func markNotificationReadHandler(repo notification.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_notification_id", "id must be a valid UUID")
			return
		}

		it, err := repo.MarkRead(r.Context(), id, actor.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNotificationResponse(it))
	}
}

func markAllNotificationsReadHandler(repo notification.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_identity", "authentication required")
			return
		}

		if err := repo.MarkAllRead(r.Context(), actor.ID); err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
	}
}
