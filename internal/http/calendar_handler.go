package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/auction-scheduler/internal/application"
)

type calendarService interface {
	SetAvailability(ctx context.Context, params application.SetAvailabilityParams) (application.Calendar, error)
	ScheduleAfterAuction(ctx context.Context, params application.ScheduleAfterAuctionParams) (application.Slot, error)
	CancelBeforeStart(ctx context.Context, params application.CancelBeforeStartParams) (application.Slot, error)
	GetCalendarView(ctx context.Context, params application.GetCalendarViewParams) (application.CalendarView, error)
}

// CalendarHandler serves the availability and slot endpoints.
type CalendarHandler struct {
	service   calendarService
	responder responder
}

// NewCalendarHandler wires the calendar endpoints.
func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger)}
}

type availabilityRequest struct {
	Availability []application.DayEntry `json:"availability"`
}

type scheduleRequest struct {
	ExecutiveID          string `json:"executiveId"`
	OwnerID              string `json:"ownerId"`
	ContractID           string `json:"contractId"`
	AuctionEndDate       string `json:"auctionEndDate"`
	TierOffsetDays       int    `json:"tierOffsetDays"`
	TierDurationDays     int    `json:"tierDurationDays"`
	ContractDeadlineDate string `json:"contractDeadlineDate,omitempty"`
}

type cancelRequest struct {
	NowDate string `json:"nowDate"`
}

// SetAvailability handles POST /calendar/executive/{id}.
func (h *CalendarHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	executiveID, ok := ExecutiveIDFromContext(r.Context())
	if !ok || strings.TrimSpace(executiveID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExecutiveID)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	calendar, err := h.service.SetAvailability(r.Context(), application.SetAvailabilityParams{
		Principal:   principal,
		ExecutiveID: executiveID,
		Entries:     req.Availability,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "calendar", "set_availability", "executive_id", executiveID).
		InfoContext(r.Context(), "availability replaced", "entries", len(calendar.Availability))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendar)
}

// GetCalendar handles GET /calendar/executive/{id}.
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	executiveID, ok := ExecutiveIDFromContext(r.Context())
	if !ok || strings.TrimSpace(executiveID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExecutiveID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	view, err := h.service.GetCalendarView(r.Context(), application.GetCalendarViewParams{
		Principal:   principal,
		ExecutiveID: executiveID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, view)
}

// Schedule handles POST /calendar/schedule/{slotId}.
func (h *CalendarHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slotID, ok := SlotIDFromContext(r.Context())
	if !ok || strings.TrimSpace(slotID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlotID)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	slot, err := h.service.ScheduleAfterAuction(r.Context(), application.ScheduleAfterAuctionParams{
		Principal:            principal,
		SlotID:               slotID,
		ExecutiveID:          req.ExecutiveID,
		OwnerID:              req.OwnerID,
		ContractID:           req.ContractID,
		AuctionEndDate:       req.AuctionEndDate,
		TierOffsetDays:       req.TierOffsetDays,
		TierDurationDays:     req.TierDurationDays,
		ContractDeadlineDate: req.ContractDeadlineDate,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "calendar", "schedule", "slot_id", slotID).
		InfoContext(r.Context(), "slot scheduled", "start_date", slot.StartDate, "end_date", slot.EndDate)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, slot)
}

// Cancel handles POST /calendar/schedule/{slotId}/cancel.
func (h *CalendarHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slotID, ok := SlotIDFromContext(r.Context())
	if !ok || strings.TrimSpace(slotID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlotID)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.NowDate == "" {
		req.NowDate = time.Now().UTC().Format("2006-01-02")
	}

	principal, _ := PrincipalFromContext(r.Context())

	slot, err := h.service.CancelBeforeStart(r.Context(), application.CancelBeforeStartParams{
		Principal: principal,
		SlotID:    slotID,
		NowDate:   req.NowDate,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "calendar", "cancel", "slot_id", slotID).
		InfoContext(r.Context(), "slot canceled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slot)
}
