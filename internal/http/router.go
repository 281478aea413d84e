package http

import (
	"net/http"
	"strings"
)

// RouterConfig bundles the handlers and middleware for the API surface.
// IdentityMiddleware guards every /calendar route; health probes stay open.
// Middleware wraps the whole router, health probes included.
type RouterConfig struct {
	Calendars          *CalendarHandler
	Notifications      *NotificationHandler
	Health             *HealthHandler
	IdentityMiddleware func(http.Handler) http.Handler
	Middleware         []func(http.Handler) http.Handler
}

// NewRouter assembles the HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	api := http.NewServeMux()

	if cfg.Calendars != nil {
		api.HandleFunc("/calendar/executive/", func(w http.ResponseWriter, r *http.Request) {
			executiveID := strings.TrimPrefix(r.URL.Path, "/calendar/executive/")
			if executiveID == "" || strings.Contains(executiveID, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithExecutiveID(r.Context(), executiveID)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Calendars.GetCalendar(w, r)
			case http.MethodPost:
				cfg.Calendars.SetAvailability(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})

		api.HandleFunc("/calendar/schedule/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/calendar/schedule/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			slotID, cancel := rest, false
			if trimmed, ok := strings.CutSuffix(rest, "/cancel"); ok {
				slotID, cancel = trimmed, true
			}
			if slotID == "" || strings.Contains(slotID, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}

			ctx := ContextWithSlotID(r.Context(), slotID)
			r = r.WithContext(ctx)
			if cancel {
				cfg.Calendars.Cancel(w, r)
				return
			}
			cfg.Calendars.Schedule(w, r)
		})
	}

	if cfg.Notifications != nil {
		api.HandleFunc("/calendar/notify/", func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimPrefix(r.URL.Path, "/calendar/notify/")
			if userID == "" || strings.Contains(userID, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			ctx := ContextWithUserID(r.Context(), userID)
			cfg.Notifications.Notify(w, r.WithContext(ctx))
		})
	}

	var protected http.Handler = api
	if cfg.IdentityMiddleware != nil {
		protected = cfg.IdentityMiddleware(api)
	}

	root := http.NewServeMux()
	root.Handle("/calendar/", protected)
	if cfg.Health != nil {
		root.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Live(w, r)
		})
		root.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Ready(w, r)
		})
	}

	var handler http.Handler = root
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
