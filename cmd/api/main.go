// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/food-ordering-backend/internal/infrastructure/database/redis"
	"github.com/your-org/food-ordering-backend/internal/interfaces/http"
	"github.com/your-org/food-ordering-backend/internal/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Logging)
	appLog.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Health(); err != nil {
		appLog.WithError(err).Fatal("Database health check failed")
	}

	// Redis backs the menu cache and rate limiter; the API runs without it
	var redisClient *goredis.Client
	if rc, err := redis.NewConnection(cfg); err != nil {
		appLog.WithError(err).Warn("Redis unavailable, running without menu cache and rate limiting")
	} else {
		defer rc.Close()
		redisClient = rc.GetClient()
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		appLog.WithError(err).Fatal("Database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		appLog.WithError(err).Warn("Index creation failed")
	}

	if cfg.Database.SeedMenu {
		seeded, err := migration.SeedMenu()
		if err != nil {
			appLog.WithError(err).Warn("Menu seeding failed")
		} else if seeded > 0 {
			appLog.WithField("products", seeded).Info("🌱 Seeded starter menu")
		}
	}

	if cfg.IsDevelopment() {
		migration.GetTableInfo()
	}

	appLog.Info("✅ All systems operational!")

	server := http.NewServer(cfg, db.GetDB(), redisClient, appLog)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLog.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLog.Info("✅ Server shutdown completed")
}
