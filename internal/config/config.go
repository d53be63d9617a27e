// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/dateoption"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/mailer"
)

// DefaultMailFrom is the sender address used when MAIL_FROM is unset.
const DefaultMailFrom = "reminders@trailcrew.local"

// Config holds all configuration values for the API server and the
// reminder job. Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Zone is the civil timezone permits are published in (PERMIT_TIMEZONE).
	Zone calendar.Zone

	// Season bounds candidate trip windows (SEASON_START, SEASON_END as MM-DD).
	Season dateoption.Season

	// ReminderHorizonDays is the default look-ahead for upcoming reminders.
	ReminderHorizonDays int

	// SMTP settings. An empty SMTP.Host means emails are logged, not sent.
	SMTP mailer.SMTPConfig

	// MailTestMode sends every reminder to MailTestRecipient only.
	MailTestMode      bool
	MailTestRecipient string

	// AppBaseURL is linked from reminder emails when set.
	AppBaseURL string

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// The returned error wraps domain.ErrConfiguration and lists every required
// variable that is not set and every variable that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MailTestRecipient: strings.TrimSpace(os.Getenv("MAIL_TEST_RECIPIENT")),
		AppBaseURL:        strings.TrimRight(os.Getenv("APP_BASE_URL"), "/"),
		SMTP: mailer.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", DefaultMailFrom),
		},
	}

	var missing, invalid []string
	bad := func(key string, err error) {
		invalid = append(invalid, fmt.Sprintf("%s (%v)", key, err))
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		bad("LOG_LEVEL", fmt.Errorf("unknown level %q", cfg.LogLevel))
	}

	zone, err := calendar.LoadZone(getEnv("PERMIT_TIMEZONE", calendar.DefaultZoneName))
	if err != nil {
		bad("PERMIT_TIMEZONE", err)
	}
	cfg.Zone = zone

	season, err := dateoption.ParseSeason(
		getEnv("SEASON_START", dateoption.DefaultSeason.Start.String()),
		getEnv("SEASON_END", dateoption.DefaultSeason.End.String()),
	)
	if err != nil {
		bad("SEASON_START/SEASON_END", err)
	}
	cfg.Season = season

	if cfg.ReminderHorizonDays, err = getInt("REMINDER_HORIZON_DAYS", 30); err != nil || cfg.ReminderHorizonDays < 0 {
		bad("REMINDER_HORIZON_DAYS", fmt.Errorf("must be a non-negative integer"))
	}
	if cfg.SMTP.Port, err = getInt("SMTP_PORT", 587); err != nil || cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		bad("SMTP_PORT", fmt.Errorf("must be a TCP port"))
	}
	if cfg.MailTestMode, err = getBool("MAIL_TEST_MODE", false); err != nil {
		bad("MAIL_TEST_MODE", err)
	}
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", false); err != nil {
		bad("MIGRATE_ON_START", err)
	}

	if !mailer.ValidAddress(cfg.SMTP.From) {
		bad("MAIL_FROM", fmt.Errorf("not an email address"))
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
