// Package app wires configuration, storage, mail and services together for
// the binaries under cmd/. No business logic belongs here.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/trailcrew/internal/config"
	"github.com/pkordes/trailcrew/internal/handler"
	"github.com/pkordes/trailcrew/internal/mailer"
	"github.com/pkordes/trailcrew/internal/permit"
	"github.com/pkordes/trailcrew/internal/repo"
	"github.com/pkordes/trailcrew/internal/service"
	"github.com/pkordes/trailcrew/migrations"
)

// NewLogger returns a JSON slog.Logger at the configured level. An unknown
// level falls back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// Connect opens the pool, verifies the database is reachable, and applies
// migrations when MIGRATE_ON_START is set.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app.Connect: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app.Connect: ping: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		db := stdlib.OpenDBFromPool(pool)
		err := migrations.Up(ctx, db, logger)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("app.Connect: %w", err)
		}
	}
	return pool, nil
}

// NewSender picks the SMTP relay when SMTP_HOST is set and a log-only
// sender otherwise.
func NewSender(cfg config.Config, logger *slog.Logger) (mailer.Sender, error) {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set; reminder emails will be logged, not sent")
		return mailer.NewLogSender(cfg.SMTP.From, logger), nil
	}
	s, err := mailer.NewSMTPSender(cfg.SMTP, logger)
	if err != nil {
		return nil, fmt.Errorf("app.NewSender: %w", err)
	}
	return s, nil
}

// Services holds every wired service.
type Services struct {
	Trips       *service.TripService
	Sites       *service.SiteService
	Members     *service.MemberService
	Reminders   *service.ReminderService
	DateOptions *service.DateOptionService
	EmailLog    *service.EmailLogService
}

// NewServices builds the repos over pool and the services over the repos.
func NewServices(cfg config.Config, pool *pgxpool.Pool, sender mailer.Sender, now func() time.Time, logger *slog.Logger) Services {
	trips := repo.NewTripRepo(pool)
	sites := repo.NewSiteRepo(pool)
	members := repo.NewMemberRepo(pool)
	emailLog := repo.NewEmailLogRepo(pool)

	calc := permit.NewCalculator(cfg.Zone, logger)
	reminders := service.NewReminderService(
		service.ReminderStores{
			Trips:     trips,
			Sites:     sites,
			Reminders: repo.NewReminderRepo(pool),
			Members:   members,
			EmailLog:  emailLog,
		},
		calc,
		sender,
		service.MailSettings{
			TestMode:      cfg.MailTestMode,
			TestRecipient: cfg.MailTestRecipient,
			AppBaseURL:    cfg.AppBaseURL,
		},
		now,
		logger,
	)

	return Services{
		Trips:       service.NewTripService(trips),
		Sites:       service.NewSiteService(sites),
		Members:     service.NewMemberService(members),
		Reminders:   reminders,
		DateOptions: service.NewDateOptionService(trips, repo.NewDateOptionRepo(pool), cfg.Season),
		EmailLog:    service.NewEmailLogService(emailLog),
	}
}

// HandlerServices adapts Services to the handler's interfaces.
func (s Services) HandlerServices() handler.Services {
	return handler.Services{
		Trips:       s.Trips,
		Sites:       s.Sites,
		Members:     s.Members,
		Reminders:   s.Reminders,
		DateOptions: s.DateOptions,
		EmailLog:    s.EmailLog,
	}
}
