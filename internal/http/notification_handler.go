package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/auction-scheduler/internal/application"
)

type notificationService interface {
	PushOrRead(ctx context.Context, params application.PushOrReadParams) ([]application.Notification, error)
}

// NotificationHandler serves the notification inbox endpoint.
type NotificationHandler struct {
	service   notificationService
	responder responder
}

// NewNotificationHandler wires the notification endpoint.
func NewNotificationHandler(service notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, responder: newResponder(logger)}
}

type notifyRequest struct {
	Notifications []application.PushNotificationInput `json:"notifications"`
	MarkReadIDs   []string                            `json:"markReadIds"`
}

type notifyResponse struct {
	Notifications []application.Notification `json:"notifications"`
}

// Notify handles POST /calendar/notify/{userId}.
func (h *NotificationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	inbox, err := h.service.PushOrRead(r.Context(), application.PushOrReadParams{
		Principal:     principal,
		UserID:        userID,
		Notifications: req.Notifications,
		MarkReadIDs:   req.MarkReadIDs,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if inbox == nil {
		inbox = []application.Notification{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notifyResponse{Notifications: inbox})
}
