package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/auction-scheduler/internal/application"
	"github.com/example/auction-scheduler/internal/config"
	"github.com/example/auction-scheduler/internal/cron"
	httptransport "github.com/example/auction-scheduler/internal/http"
	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/logging"
	"github.com/example/auction-scheduler/internal/persistence"
	"github.com/example/auction-scheduler/internal/persistence/memory"
	"github.com/example/auction-scheduler/internal/persistence/sqlite"
)

func main() {
	// Load a local .env when present; the real environment wins.
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	tx, cleanup, err := newTxManager(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	now := time.Now
	meet := integrations.NewSimulatedMeetProvider()
	contracts := integrations.NewSimulatedContractGateway()

	calendarService := application.NewCalendarService(tx, meet, logger, now)
	sweepService := application.NewSweepService(tx, contracts, 0, logger)
	notificationService := application.NewNotificationService(tx, logger)

	sweeper, err := cron.NewRunner(cfg.CronSpec, sweepService, logger, now)
	if err != nil {
		logger.Error("failed to build sweep runner", "error", err)
		os.Exit(1)
	}
	sweeper.Start()

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Calendars:          httptransport.NewCalendarHandler(calendarService, logger),
		Notifications:      httptransport.NewNotificationHandler(notificationService, logger),
		Health:             httptransport.NewHealthHandler(tx, logger),
		IdentityMiddleware: httptransport.RequirePrincipal(logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweeper.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop sweep runner", "error", err)
		}
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr, "environment", cfg.Environment, "cron_spec", cfg.CronSpec)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// newTxManager selects the storage backend: a SQLite file when a DSN is
// configured, the in-memory snapshot store otherwise.
func newTxManager(cfg config.Config, logger *slog.Logger) (persistence.TxManager, func(), error) {
	if cfg.SQLiteDSN == "" {
		logger.Info("using in-memory storage")
		return memory.NewTxManager(memory.WithIDGenerator(uuid.NewString)), func() {}, nil
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	logger.Info("using sqlite storage", "dsn", cfg.SQLiteDSN)

	cleanup := func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}
	return sqlite.NewTxManager(pool, sqlite.WithIDGenerator(uuid.NewString)), cleanup, nil
}
