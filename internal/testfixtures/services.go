package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/auction-scheduler/internal/application"
	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/persistence/memory"
)

// Env bundles a memory backed transaction manager with fully wired services,
// a controllable clock, and deterministic identifiers.
type Env struct {
	Tx            *memory.TxManager
	Clock         *Clock
	IDs           *IDGenerator
	Calendars     *application.CalendarService
	Sweeps        *application.SweepService
	Notifications *application.NotificationService
}

// EnvOption configures the environment under construction.
type EnvOption func(*envConfig)

type envConfig struct {
	meet      integrations.MeetingProvider
	contracts integrations.ContractGateway
	window    time.Duration
	logger    *slog.Logger
}

// WithMeetingProvider overrides the simulated meeting provider.
func WithMeetingProvider(meet integrations.MeetingProvider) EnvOption {
	return func(cfg *envConfig) {
		cfg.meet = meet
	}
}

// WithContractGateway overrides the simulated contract gateway.
func WithContractGateway(contracts integrations.ContractGateway) EnvOption {
	return func(cfg *envConfig) {
		cfg.contracts = contracts
	}
}

// WithReminderWindow overrides the sweep reminder window.
func WithReminderWindow(window time.Duration) EnvOption {
	return func(cfg *envConfig) {
		cfg.window = window
	}
}

// WithLogger attaches a logger to every constructed service.
func WithLogger(logger *slog.Logger) EnvOption {
	return func(cfg *envConfig) {
		cfg.logger = logger
	}
}

// NewEnv constructs a deterministic scheduler environment for tests.
func NewEnv(opts ...EnvOption) *Env {
	cfg := envConfig{
		meet:      integrations.NewSimulatedMeetProvider(),
		contracts: integrations.NewSimulatedContractGateway(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clock := NewClock(time.Time{})
	ids := NewIDGenerator("id")
	tx := memory.NewTxManager(
		memory.WithIDGenerator(ids.NextFunc()),
		memory.WithClock(clock.NowFunc()),
	)

	return &Env{
		Tx:            tx,
		Clock:         clock,
		IDs:           ids,
		Calendars:     application.NewCalendarService(tx, cfg.meet, cfg.logger, clock.NowFunc()),
		Sweeps:        application.NewSweepService(tx, cfg.contracts, cfg.window, cfg.logger),
		Notifications: application.NewNotificationService(tx, cfg.logger),
	}
}
