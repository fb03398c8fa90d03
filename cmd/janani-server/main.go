package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jananicare/server/internal/api"
	"github.com/jananicare/server/internal/config"
	"github.com/jananicare/server/internal/cron"
	"github.com/jananicare/server/internal/guidance"
	"github.com/jananicare/server/internal/reminders"
	"github.com/jananicare/server/internal/store"
	"github.com/jananicare/server/internal/voicelog"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	version    = "dev"
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting janani-server",
		zap.String("version", version),
	)

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := store.Open(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close(db)

	reminderStore, err := reminders.NewStore(db)
	if err != nil {
		logger.Fatal("Failed to initialize reminder store", zap.Error(err))
	}

	logStore, err := voicelog.NewStore(db)
	if err != nil {
		logger.Fatal("Failed to initialize voice log store", zap.Error(err))
	}

	guidanceClient := guidance.NewClient(&cfg.Guidance, logger)
	generator := reminders.NewGenerator(guidanceClient, logger)
	svc := reminders.NewService(reminderStore, logStore, generator, cfg.Scheduler.SweepRPM, logger)

	var runner *cron.Runner
	if cfg.Scheduler.Enabled {
		runner, err = cron.NewRunner(cfg.Scheduler.Spec, svc, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scheduler", zap.Error(err))
		}
		runner.Start()
	}

	server := api.New(cfg, svc, logStore, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("address", cfg.Server.Address),
		zap.Int("port", cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	if runner != nil {
		runner.Stop()
	}
	if err := server.Shutdown(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
