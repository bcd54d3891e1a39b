package main

import (
	"os"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/pkg/database"
	"anpl-sports-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
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
	logger.Log.Info("database migrations completed")

	repo := repositories.NewRepository(db)

	if err := createDefaultAdmin(repo, cfg); err != nil {
		logger.Log.Fatalf("Failed to create default admin: %v", err)
	}

	categories := services.NewCategoryService(repo, cfg)
	for _, eventType := range []string{models.EventTypeBadminton, models.EventTypeCricket} {
		n, err := categories.Seed(eventType)
		if err != nil {
			logger.Log.Fatalf("Failed to seed %s categories: %v", eventType, err)
		}
		logger.Log.WithField("event_type", eventType).WithField("count", n).Info("categories seeded")
	}
}

func createDefaultAdmin(repo *repositories.Repository, cfg *config.Config) error {
	adminEmail := getenv("ADMIN_EMAIL", "admin@anpl.local")
	adminPassword := getenv("ADMIN_PASSWORD", "admin123")

	if existing, _ := repo.UserRepo.GetUserByEmail(adminEmail); existing != nil {
		logger.Log.Info("default admin user already exists")
		return nil
	}

	auth := services.NewAuthService(repo, cfg)
	admin, err := auth.CreateUser(adminEmail, adminPassword, models.RoleAdmin, services.ProfileInput{FullName: "Administrator"})
	if err != nil {
		return err
	}

	logger.Log.WithField("email", admin.Email).Info("default admin user created")
	return nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
