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

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/application/service"
	"github.com/tkhalil/erpflow/internal/application/workflow"
	"github.com/tkhalil/erpflow/internal/config"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/export"
	"github.com/tkhalil/erpflow/internal/infrastructure/notification"
	larknotify "github.com/tkhalil/erpflow/internal/infrastructure/notification/lark"
	"github.com/tkhalil/erpflow/internal/infrastructure/persistence/repository"
	"github.com/tkhalil/erpflow/internal/infrastructure/persistence/sqlite"
	"github.com/tkhalil/erpflow/internal/infrastructure/storage"
	httpserver "github.com/tkhalil/erpflow/internal/interfaces/http"
	"github.com/tkhalil/erpflow/pkg/database"
	"github.com/tkhalil/erpflow/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Credentials may come from a local .env in development
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

	logger.Info("Starting ERP approval workflow service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Database
	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)

	// Repositories
	docRepo := repository.NewDocumentRepository(sqlDB, logger)
	processRepo := repository.NewProcessRepository(sqlDB, logger)
	txRepo := repository.NewTransactionRepository(sqlDB, logger)
	taskRepo := repository.NewTaskRepository(sqlDB, logger)
	attRepo := repository.NewAttachmentRepository(sqlDB, logger)

	fileStorage := storage.NewLocalFileStorage(cfg.Storage.BaseDir, logger)

	// Notification channel
	var notifier port.Notifier = notification.NewNoopNotifier(logger)
	if cfg.Lark.Enabled {
		larkClient := larknotify.NewClient(larknotify.Config{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
		}, logger)
		notifier = larknotify.NewMessenger(larkClient, cfg.Lark.ReceiveIDType, logger)
	}

	svcLogger := utils.NewKVLogger(logger)

	// Services
	processService := service.NewProcessService(processRepo, svcLogger)
	ledgerService := service.NewLedgerService(txRepo, svcLogger)
	documentService := service.NewDocumentService(docRepo, entity.DefaultDocumentTypes, svcLogger)
	attachmentService := service.NewAttachmentService(attRepo, docRepo, fileStorage, db, svcLogger)
	taskService := service.NewTaskService(taskRepo, notifier, cfg.Workflow.TaskDeadline, svcLogger)

	engine := workflow.NewEngine(docRepo, processService, ledgerService, taskService, db,
		entity.DefaultDocumentTypes, svcLogger)

	exporter := export.NewHistoryExporter(logger)

	// HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpserver.Services{
		Documents:   documentService,
		Attachments: attachmentService,
		Tasks:       taskService,
		Ledger:      ledgerService,
		Processes:   processService,
		Engine:      engine,
		Exporter:    exporter,
	}, svcLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited")
}
