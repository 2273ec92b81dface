package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"estate-crm/models"
)

// StartScheduler starts the background jobs: Google Sheets polling and the
// follow-up reminder/missed sweep. Returns the cron so the caller can stop
// it on shutdown.
func StartScheduler(sheetsInterval time.Duration) *cron.Cron {
	c := cron.New()

	minutes := int(sheetsInterval.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	c.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		integration, err := GetIntegrationByType(ctx, string(models.IntegrationGoogleSheets))
		if err != nil {
			slog.Error("Sheets poll: failed to load integration", "error", err)
			return
		}
		if integration == nil || !integration.Connected {
			return
		}

		if _, err := SyncGoogleSheets(ctx); err != nil {
			slog.Error("Sheets poll failed", "error", err)
		}
	})

	c.AddFunc("@every 15m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		settings, err := GetSettings(ctx)
		if err != nil {
			slog.Error("Follow-up sweep: failed to load settings", "error", err)
			return
		}

		window := time.Duration(settings.ReminderWindowHours) * time.Hour
		missed, reminded, err := SweepFollowUps(ctx, window)
		if err != nil {
			slog.Error("Follow-up sweep failed", "error", err)
			return
		}
		if missed > 0 || reminded > 0 {
			slog.Info("Follow-up sweep finished", "missed", missed, "reminded", reminded)
		}
	})

	c.Start()
	slog.Info("Scheduler started", "sheetsIntervalMinutes", minutes)

	return c
}
