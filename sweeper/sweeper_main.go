package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EldoranCodes/FileStorageApi/config"
	infraPkg "github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/EldoranCodes/FileStorageApi/sweeper/worker"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	svc := service.InitService(infra, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prompt purges arrive over the queue; the cron sweep is the catch-up.
	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra, svc.Cleanup)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Cleanup consumer: %v", err)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.EnvConfig.Sweeper.Schedule, func() {
		removed, err := svc.Cleanup.Sweep(ctx)
		if err != nil {
			infra.Logger.ErrorWithContextf(ctx, err, "Scheduled sweep failed: %v", err)
			return
		}
		infra.Logger.InfoWithContextf(ctx, "Scheduled sweep removed %d files", removed)
	})
	if err != nil {
		log.Fatalf("Failed to schedule sweep (%q): %v", cfg.EnvConfig.Sweeper.Schedule, err)
	}
	scheduler.Start()

	infra.Logger.InfoWithContextf(ctx, "Sweeper started with schedule %q", cfg.EnvConfig.Sweeper.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down sweeper...")
	scheduler.Stop()
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Sweeper exited properly")
}
