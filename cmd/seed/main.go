package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"teslo-catalog/internal/config"
	"teslo-catalog/internal/database"
	"teslo-catalog/internal/logger"
	"teslo-catalog/internal/repository"
	"teslo-catalog/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Standalone reseed binary for test/demo environments. Destroys every
// product and user and reinserts the fixed dataset.
func main() {
	// Load .env before config so local runs pick up database credentials
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment variables")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	productRepo := repository.NewProductRepository()
	imageRepo := repository.NewImageRepository()
	userRepo := repository.NewUserRepository(pool)

	catalogService := service.NewCatalogService(pool, productRepo, imageRepo, log)
	seedService := service.NewSeedService(catalogService, userRepo, log)

	if err := seedService.Run(ctx); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}

	log.Info("Seed completed successfully")
}
