// Command remind sends every due permit reminder once and exits. Run it from
// cron or a scheduled job; a reminder that fails to send stays pending and
// is retried on the next run.
//
// Exit status is 0 when every due reminder was sent, 1 when the run could not
// start, and 2 when at least one reminder failed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkordes/trailcrew/internal/app"
	"github.com/pkordes/trailcrew/internal/config"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the run after this long")
	dryRun := flag.Bool("dry-run", false, "list due reminders without sending")
	flag.Parse()

	os.Exit(run(*timeout, *dryRun))
}

func run(timeout time.Duration, dryRun bool) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 1
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := app.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	sender, err := app.NewSender(cfg, logger)
	if err != nil {
		logger.Error("failed to configure mail", "error", err)
		return 1
	}
	reminders := app.NewServices(cfg, pool, sender, time.Now, logger).Reminders

	if dryRun {
		due, err := reminders.DueReminders(ctx)
		if err != nil {
			logger.Error("list due reminders", "error", err)
			return 1
		}
		for _, r := range due {
			fmt.Printf("%s\t%s\t%s\n", r.ID, r.SiteName, cfg.Zone.Format(r.PermitOpensAt, time.RFC1123))
		}
		fmt.Printf("due: %d\n", len(due))
		return 0
	}

	report, err := reminders.SendDue(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			logger.Error("mail is misconfigured; nothing was sent", "error", err)
			return 1
		}
		logger.Error("send due reminders", "error", err)
		// A cancelled run still reports what it got through.
		if len(report.Results) > 0 {
			printReport(report)
		}
		return 1
	}

	printReport(report)
	if report.Failed > 0 {
		return 2
	}
	return 0
}

func printReport(report service.DispatchReport) {
	fmt.Printf("found: %d sent: %d failed: %d\n", report.Found, report.Sent, report.Failed)
	for _, r := range report.Results {
		if r.Error != "" {
			fmt.Printf("  %s %s (%s): %s\n", r.Outcome, r.SiteName, r.ReminderID, r.Error)
		}
	}
}
