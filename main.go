package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"estate-crm/config"
	"estate-crm/handlers"
	"estate-crm/middleware"
	"estate-crm/services"
	"estate-crm/webhooks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(ctx)

	// Initialize services
	services.InitServices(db, cfg.DatabaseName)

	// Background workers
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	services.StartSessionCleanup(cleanupCtx)

	scheduler := services.StartScheduler(cfg.SheetsPollInterval)
	defer scheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
		MaxAge:           86400,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Inbound lead webhooks (no auth, verified by token handshake)
	webhooks.RegisterRoutes(app, cfg)

	// Registered before the auth gate on /api
	auth := app.Group("/api/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", handlers.GetCurrentCaller)
	auth.Get("/check", handlers.CheckSession)

	// Health check, registered before the auth gate on /api
	app.Get("/api/health", func(c *fiber.Ctx) error {
		healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer healthCancel()

		if err := services.PingDatabase(healthCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "ok",
			"database": "connected",
		})
	})

	// Dashboard API endpoints (protected)
	api := app.Group("/api", middleware.RequireAuth)

	// Leads
	api.Get("/leads", handlers.GetLeads)
	api.Post("/leads", handlers.CreateLead)
	api.Post("/leads/merge-duplicates", handlers.MergeDuplicateLeads)
	api.Post("/leads/bulk-assign", handlers.BulkAssignLeads)
	api.Post("/leads/import", handlers.ImportLeads)
	api.Get("/leads/export", handlers.ExportLeads)
	api.Get("/leads/:leadID", handlers.GetLeadDetails)
	api.Put("/leads/:leadID", handlers.UpdateLead)
	api.Patch("/leads/:leadID", handlers.UpdateLead)
	api.Delete("/leads/:leadID", handlers.DeleteLead)
	api.Post("/leads/:leadID/notes", handlers.AddLeadNote)

	// Callers
	api.Get("/callers", handlers.GetCallers)
	api.Post("/callers", middleware.RequireAdmin, handlers.CreateCaller)
	api.Get("/callers/:callerID", handlers.GetCallerDetails)
	api.Put("/callers/:callerID", middleware.RequireAdmin, handlers.UpdateCaller)
	api.Delete("/callers/:callerID", middleware.RequireAdmin, handlers.DeleteCaller)

	// Per-caller productivity stats
	api.Get("/caller-stats/caller/:callerID/daily", handlers.GetCallerDailyStats)
	api.Get("/caller-stats/caller/:callerID/today", handlers.GetCallerTodayStats)

	// Brokers
	api.Get("/brokers", handlers.GetBrokers)
	api.Post("/brokers", handlers.CreateBroker)
	api.Get("/brokers/:brokerID", handlers.GetBrokerDetails)
	api.Put("/brokers/:brokerID", handlers.UpdateBroker)
	api.Delete("/brokers/:brokerID", handlers.DeleteBroker)
	api.Post("/brokers/:brokerID/assign-leads", handlers.AssignLeadsToBroker)

	// Follow-ups
	api.Get("/followups", handlers.GetFollowUps)
	api.Post("/followups", handlers.CreateFollowUp)
	api.Get("/followups/:followUpID", handlers.GetFollowUpDetails)
	api.Put("/followups/:followUpID", handlers.UpdateFollowUp)
	api.Delete("/followups/:followUpID", handlers.DeleteFollowUp)
	api.Put("/followups/:followUpID/complete", handlers.CompleteFollowUp)
	api.Put("/followups/:followUpID/cancel", handlers.CancelFollowUp)
	api.Put("/followups/:followUpID/remind", handlers.RemindFollowUp)

	// Meetings
	api.Get("/meetings", handlers.GetMeetings)
	api.Post("/meetings", handlers.CreateMeeting)
	api.Get("/meetings/:meetingID", handlers.GetMeetingDetails)
	api.Put("/meetings/:meetingID", handlers.UpdateMeeting)
	api.Delete("/meetings/:meetingID", handlers.DeleteMeeting)

	// Call logs
	api.Get("/call-logs", handlers.GetCallLogs)
	api.Post("/call-logs", handlers.CreateCallLog)
	api.Delete("/call-logs/:callLogID", middleware.RequireAdmin, handlers.DeleteCallLog)

	// Activity feed
	api.Get("/activities", handlers.GetActivities)

	// Dashboards and reports
	api.Get("/dashboard/stats", handlers.GetDashboardStats)
	api.Get("/reports/stats", handlers.GetReportStats)
	api.Get("/reports/export", handlers.ExportReport)

	// Integrations
	api.Get("/integrations", handlers.GetIntegrations)
	api.Get("/integrations/:type", handlers.GetIntegrationDetails)
	api.Post("/integrations/:type/connect", middleware.RequireAdmin, handlers.ConnectIntegration)
	api.Post("/integrations/:type/disconnect", middleware.RequireAdmin, handlers.DisconnectIntegration)
	api.Post("/integrations/:type/sync", middleware.RequireAdmin, handlers.SyncIntegration)

	// Settings
	api.Get("/settings", handlers.GetSettings)
	api.Put("/settings", middleware.RequireAdmin, handlers.UpdateSettings)

	// WebSocket endpoint (requires authentication)
	api.Get("/dashboard/ws", handlers.WebSocketUpgrade, websocket.New(handlers.HandleWebSocket))

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
