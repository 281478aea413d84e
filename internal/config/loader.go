package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Environments the service recognizes.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config captures environment driven configuration values for the scheduler service.
type Config struct {
	HTTPPort    int
	SQLiteDSN   string
	CronSpec    string
	Environment string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields and validates the rest: an
// empty SQLite DSN keeps state in memory, which production refuses.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		SQLiteDSN:   "",
		CronSpec:    "0 * * * *",
		Environment: EnvDevelopment,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCHEDULER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEDULER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if spec := strings.TrimSpace(os.Getenv("SCHEDULER_CRON_SPEC")); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			invalid = append(invalid, "SCHEDULER_CRON_SPEC")
		} else {
			cfg.CronSpec = spec
		}
	}

	if env := strings.TrimSpace(os.Getenv("SCHEDULER_ENV")); env != "" {
		switch env {
		case EnvDevelopment, EnvTest, EnvProduction:
			cfg.Environment = env
		default:
			invalid = append(invalid, "SCHEDULER_ENV")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	if cfg.Environment == EnvProduction && cfg.SQLiteDSN == "" {
		return Config{}, fmt.Errorf("SCHEDULER_SQLITE_DSN is required when SCHEDULER_ENV=production")
	}

	return cfg, nil
}
