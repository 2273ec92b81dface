package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/services"
)

// GetDashboardStats returns the aggregate counters, breakdowns, and
// pipeline value shown on the main dashboard
func GetDashboardStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats, err := services.GetDashboardStats(ctx)
	if err != nil {
		slog.Error("Failed to compute dashboard stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute dashboard stats",
		})
	}

	return c.JSON(stats)
}

// GetReportStats returns per-day lead and call counts for the last N days
func GetReportStats(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats, err := services.GetReportStats(ctx, days)
	if err != nil {
		slog.Error("Failed to compute report stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute report stats",
		})
	}

	return c.JSON(fiber.Map{
		"days":  days,
		"stats": stats,
	})
}

// ExportReport streams the daily report as an XLSX download
func ExportReport(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := services.GetReportStats(ctx, days)
	if err != nil {
		slog.Error("Failed to compute report stats for export", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export report",
		})
	}

	workbook, err := services.BuildReportWorkbook(stats)
	if err != nil {
		slog.Error("Failed to build report workbook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export report",
		})
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		slog.Error("Failed to write report workbook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export report",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.xlsx", time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
