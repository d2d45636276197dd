package main

import (
	"log"
	"time"

	"lexcase_app_go/config"
	"lexcase_app_go/db"
	"lexcase_app_go/docstore"
	"lexcase_app_go/handlers"
	"lexcase_app_go/middleware"
	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.CaseAttachment{},
		&docstore.Document{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Storage backend for attachments
	services.InitializeStorage(cfg)

	// Document collections and in-memory stores
	docs := docstore.New(db.DB)

	var cache *services.PublicCaseCache
	if cfg.RedisURL != "" {
		var err error
		cache, err = services.NewPublicCaseCache(cfg.RedisURL)
		if err != nil {
			log.Printf("[WARNING] Redis unavailable, public cases served uncached: %v", err)
		}
	}

	caseStore := services.NewCaseStore(docs, cache)
	taskStore := services.NewTaskStore(docs)
	gate := services.NewSessionGate()
	notifier := services.NewNotifier()
	mailer := services.NewEmailService(cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	authHandler := handlers.NewAuthHandler(cfg, docs, mailer, gate)
	caseHandler := handlers.NewCaseHandler(caseStore, taskStore, notifier)
	taskHandler := handlers.NewTaskHandler(caseStore, taskStore, notifier)
	dashboardHandler := handlers.NewDashboardHandler(caseStore, taskStore)
	publicHandler := handlers.NewPublicHandler(caseStore)
	exportHandler := handlers.NewExportHandler(cfg, caseStore, taskStore)
	attachmentHandler := handlers.NewAttachmentHandler(caseStore)
	notificationHandler := handlers.NewNotificationHandler(notifier)

	// Public routes (no authentication required)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/api/auth/reset-password", authHandler.ResetPassword)
	e.GET("/api/public/cases", publicHandler.List)
	e.GET("/api/public/cases/:id", publicHandler.Get)

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth(docs))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/dashboard", dashboardHandler.Summary)
		api.GET("/dashboard/stats", dashboardHandler.Stats)
		api.GET("/dashboard/upcoming", dashboardHandler.Upcoming)

		api.GET("/cases", caseHandler.List)
		api.POST("/cases", caseHandler.Create)
		api.GET("/cases/:id", caseHandler.Get)
		api.PATCH("/cases/:id", caseHandler.Update)
		api.DELETE("/cases/:id", caseHandler.Delete)
		api.POST("/cases/:id/star", caseHandler.ToggleStar)

		api.GET("/cases/:caseId/tasks", taskHandler.ListForCase)
		api.GET("/tasks", taskHandler.ListForFirm)
		api.GET("/tasks/board", taskHandler.Board)
		api.POST("/tasks", taskHandler.Create)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)

		api.POST("/cases/:caseId/attachments", attachmentHandler.Upload)
		api.GET("/cases/:caseId/attachments", attachmentHandler.List)
		api.GET("/attachments/:id", attachmentHandler.Download)
		api.DELETE("/attachments/:id", attachmentHandler.Delete)

		api.GET("/export/cases", exportHandler.CaseRegister)
		api.GET("/export/cases/:id/summary", exportHandler.CaseSummaryPDF)

		api.GET("/notification", notificationHandler.Current)
		api.DELETE("/notification", notificationHandler.Dismiss)
	}

	// Background cleanup of expired sessions and reset tokens
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
			if err := services.CleanupExpiredTokens(db.DB); err != nil {
				log.Printf("Error cleaning up expired tokens: %v", err)
			}
		}
	}()

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
