package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/liuyang/ai-recommendation/internal/application/service"
	"github.com/liuyang/ai-recommendation/internal/config"
	"github.com/liuyang/ai-recommendation/internal/infrastructure/persistence/repository"
	"github.com/liuyang/ai-recommendation/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/liuyang/ai-recommendation/internal/interfaces/http"
	"github.com/liuyang/ai-recommendation/migrations"
	"github.com/liuyang/ai-recommendation/pkg/database"
	"github.com/liuyang/ai-recommendation/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Local overrides from .env when present
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting recommendation review service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(migrations.Files); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	recRepo := repository.NewRecommendationRepository(db.DB, logger)
	taskRepo := repository.NewReviewTaskRepository(db.DB, logger)
	paymentRepo := repository.NewPaymentRepository(db.DB, logger)

	svcLogger := utils.NewSugarAdapter(logger)

	statusService := service.NewStatusService(recRepo, taskRepo, paymentRepo, txManager, svcLogger)
	displayService := service.NewDisplayService(statusService, svcLogger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, statusService, displayService, svcLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited")
}
