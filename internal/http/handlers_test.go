package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/auction-scheduler/internal/application"
	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/persistence/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	counter := 0
	tx := memory.NewTxManager(
		memory.WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		}),
		memory.WithClock(func() time.Time {
			return time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
		}),
	)

	calendars := application.NewCalendarService(tx, integrations.NewSimulatedMeetProvider(), nil, nil)
	notifications := application.NewNotificationService(tx, nil)

	handler := NewRouter(RouterConfig{
		Calendars:          NewCalendarHandler(calendars, nil),
		Notifications:      NewNotificationHandler(notifications, nil),
		Health:             NewHealthHandler(tx, nil),
		IdentityMiddleware: RequirePrincipal(nil),
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method, path, userID, role, body string) (*http.Response, []byte) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(HeaderRole, role)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, payload
}

func scheduleSlot(t *testing.T, server *httptest.Server, slotID string) {
	t.Helper()
	resp, body := doRequest(t, server, http.MethodPost, "/calendar/schedule/"+slotID, "system", "SYSTEM",
		`{"executiveId":"exec-1","ownerId":"owner-1","contractId":"contract-1","auctionEndDate":"2026-02-16","tierOffsetDays":2,"tierDurationDays":3,"contractDeadlineDate":"2026-02-21"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule %s: status %d, body %s", slotID, resp.StatusCode, body)
	}
}

func TestScheduleEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-1", "system", "SYSTEM",
		`{"executiveId":"exec-1","ownerId":"owner-1","contractId":"contract-1","auctionEndDate":"2026-02-16","tierOffsetDays":2,"tierDurationDays":3,"contractDeadlineDate":"2026-02-21"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var slot application.Slot
	if err := json.Unmarshal(body, &slot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if slot.SlotID != "slot-1" || slot.StartDate != "2026-02-18" || slot.EndDate != "2026-02-20" {
		t.Errorf("unexpected slot: %+v", slot)
	}
	if !strings.HasPrefix(slot.MeetingLink, "https://meet.google.com/") {
		t.Errorf("meeting link = %q", slot.MeetingLink)
	}
}

func TestScheduleEndpointConflicts(t *testing.T) {
	server := newTestServer(t)
	scheduleSlot(t, server, "slot-1")

	// Same slot id again.
	resp, _ := doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-1", "system", "SYSTEM",
		`{"executiveId":"exec-1","ownerId":"owner-1","contractId":"contract-1","auctionEndDate":"2026-03-01","tierOffsetDays":2,"tierDurationDays":3}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate slot: status = %d, want 409", resp.StatusCode)
	}

	// Overlapping dates.
	resp, _ = doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-2", "system", "SYSTEM",
		`{"executiveId":"exec-1","ownerId":"owner-1","contractId":"contract-2","auctionEndDate":"2026-02-16","tierOffsetDays":3,"tierDurationDays":3}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("overlap: status = %d, want 409", resp.StatusCode)
	}

	// Wrong role.
	resp, _ = doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-3", "owner-1", "OWNER",
		`{"executiveId":"exec-1","ownerId":"owner-1","contractId":"contract-3","auctionEndDate":"2026-04-01","tierOffsetDays":2,"tierDurationDays":3}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("owner schedule: status = %d, want 403", resp.StatusCode)
	}
}

func TestScheduleEndpointValidation(t *testing.T) {
	server := newTestServer(t)

	resp, body := doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-1", "system", "SYSTEM",
		`{"executiveId":"","ownerId":"owner-1","contractId":"contract-1","auctionEndDate":"16/02/2026","tierOffsetDays":-1,"tierDurationDays":0}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", resp.StatusCode, body)
	}

	var payload struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"executiveId", "auctionEndDate", "tierOffsetDays", "tierDurationDays"} {
		if _, ok := payload.Errors[field]; !ok {
			t.Errorf("missing field error %q: %v", field, payload.Errors)
		}
	}
}

func TestAvailabilityEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, body := doRequest(t, server, http.MethodPost, "/calendar/executive/exec-1", "exec-1", "EXECUTIVE",
		`{"availability":[{"date":"2026-02-18","status":"AVAILABLE"},{"date":"2026-02-19","status":"BLOCKED"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set availability: status = %d, body %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, server, http.MethodGet, "/calendar/executive/exec-1", "exec-1", "EXECUTIVE", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get calendar: status = %d", resp.StatusCode)
	}
	var view application.CalendarView
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Calendar.Availability) != 2 {
		t.Errorf("availability = %v", view.Calendar.Availability)
	}
	if view.Calendar.Timezone != "America/Sao_Paulo" {
		t.Errorf("timezone = %q", view.Calendar.Timezone)
	}

	// Another executive's calendar is off limits.
	resp, _ = doRequest(t, server, http.MethodGet, "/calendar/executive/exec-1", "exec-2", "EXECUTIVE", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign calendar: status = %d, want 403", resp.StatusCode)
	}
}

func TestCancelEndpoint(t *testing.T) {
	server := newTestServer(t)
	scheduleSlot(t, server, "slot-1")

	resp, body := doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-1/cancel", "system", "SYSTEM",
		`{"nowDate":"2026-02-17"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status = %d, body %s", resp.StatusCode, body)
	}
	var slot application.Slot
	if err := json.Unmarshal(body, &slot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if slot.Status != "CANCELED" {
		t.Errorf("status = %s", slot.Status)
	}

	resp, _ = doRequest(t, server, http.MethodPost, "/calendar/schedule/missing/cancel", "system", "SYSTEM",
		`{"nowDate":"2026-02-17"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing slot: status = %d, want 404", resp.StatusCode)
	}
}

func TestCancelEndpointTooLate(t *testing.T) {
	server := newTestServer(t)
	scheduleSlot(t, server, "slot-1")

	resp, _ := doRequest(t, server, http.MethodPost, "/calendar/schedule/slot-1/cancel", "system", "SYSTEM",
		`{"nowDate":"2026-02-18"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("late cancel: status = %d, want 409", resp.StatusCode)
	}
}

func TestNotifyEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := doRequest(t, server, http.MethodPost, "/calendar/notify/owner-1", "system", "SYSTEM",
		`{"notifications":[{"type":"AUCTION_CLEARED","referenceId":"slot-1","message":"hello"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("notify: status = %d, body %s", resp.StatusCode, body)
	}
	var payload struct {
		Notifications []application.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Notifications) != 1 || payload.Notifications[0].Message != "hello" {
		t.Fatalf("unexpected inbox: %+v", payload.Notifications)
	}

	// The owner marks it read.
	resp, body = doRequest(t, server, http.MethodPost, "/calendar/notify/owner-1", "owner-1", "OWNER",
		fmt.Sprintf(`{"markReadIds":[%q]}`, payload.Notifications[0].ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read: status = %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Notifications[0].Read {
		t.Errorf("notification not marked read: %+v", payload.Notifications[0])
	}

	// An owner cannot push.
	resp, _ = doRequest(t, server, http.MethodPost, "/calendar/notify/owner-1", "owner-1", "OWNER",
		`{"notifications":[{"type":"AUCTION_CLEARED","referenceId":"slot-1","message":"spoofed"}]}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("owner push: status = %d, want 403", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	// Probes work without identity headers.
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, body := doRequest(t, server, http.MethodGet, path, "", "", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d, body %s", path, resp.StatusCode, body)
		}
	}
}

func TestRouterRejectsUnknownMethodAndBadBody(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doRequest(t, server, http.MethodDelete, "/calendar/executive/exec-1", "exec-1", "EXECUTIVE", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("delete: status = %d, want 405", resp.StatusCode)
	}

	resp, _ = doRequest(t, server, http.MethodPost, "/calendar/executive/exec-1", "exec-1", "EXECUTIVE", "{not json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", resp.StatusCode)
	}
}
