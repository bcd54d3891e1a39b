package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/external"
	"anpl-sports-backend/internal/handlers"
	"anpl-sports-backend/internal/metrics"
	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/pkg/database"
	"anpl-sports-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Log.Warnf(".env file not found: %v", err)
	}

	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		logger.Log.Fatalf("Config error: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Env)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}

	if err := repositories.AutoMigrate(db); err != nil {
		logger.Log.Fatalf("Migration error: %v", err)
	}

	repo := repositories.NewRepository(db)

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		logger.Log.Warn("RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set, payments will fail")
	}
	gateway := external.NewRazorpayClient(external.RazorpayConfig{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	})

	handler := handlers.NewHandler(handlers.Services{
		Auth:         services.NewAuthService(repo, cfg),
		Events:       services.NewEventService(repo, cfg),
		Categories:   services.NewCategoryService(repo, cfg),
		Registration: services.NewRegistrationService(repo, cfg),
		Uploads:      services.NewUploadService(repo, cfg),
		Directory:    services.NewDirectoryService(repo, cfg),
		Payments:     services.NewPaymentService(repo, cfg, gateway),
		Admin:        services.NewAdminService(repo, cfg),
	}, cfg)

	app := fiber.New(fiber.Config{
		AppName:      "ANPL Sports API",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadSize) + 64*1024,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	for _, dir := range []string{cfg.UploadDir, cfg.QRDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")
	handler.RegisterRoutes(api)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Log.WithField("addr", addr).Info("server starting")
		if err := app.Listen(addr); err != nil {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Fatalf("Server shutdown error: %v", err)
	}
	logger.Log.Info("server stopped")
}
