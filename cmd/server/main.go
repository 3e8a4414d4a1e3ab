package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aptscope/config"
	"aptscope/internal/analysis"
	"aptscope/internal/api"
	"aptscope/internal/database"
	"aptscope/internal/pipeline"
	"aptscope/internal/processor"
	"aptscope/internal/queue"
	"aptscope/internal/regindex"
	"aptscope/internal/scheduler"
	"aptscope/internal/subscriptions"
	"aptscope/internal/trades"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Server.DBPath)

	// Initialize database
	db, err := database.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Separate gorm handle for the batch persistence path
	gormDB, err := gorm.Open(sqlite.Open(cfg.Server.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm database")
	}

	httpTimeout := time.Duration(cfg.Sources.HTTPTimeout) * time.Second

	// Load the regional index once; it is read-only for the process lifetime
	logger.Info("Loading regional index...")
	index := regindex.Load(context.Background(), &http.Client{Timeout: httpTimeout}, cfg.Sources.RegionalIndexURL, logger)

	// Trade records: HTTP source behind a memoizing repository
	tradeClient := trades.NewClient(
		cfg.Sources.TradeAPIBase,
		cfg.Sources.OfficetelTradeAPIBase,
		cfg.Sources.DataAPIKey,
		httpTimeout,
		logger,
	)
	tradeRepo := trades.NewRepository(tradeClient, cfg.Pricing.TradeWindowMonths, logger)

	// Subscription listings client
	fetcher := subscriptions.NewClient(
		cfg.Sources.SubscriptionAPIBase,
		cfg.Sources.DataAPIKey,
		httpTimeout,
		logger,
	)

	analyzer := analysis.NewAnalyzer(tradeRepo, index, cfg, logger)

	// Persistence path: queue feeding the batch processor
	analysisQueue := queue.NewAnalysisQueue(cfg.BatchProcessing.QueueSize, logger)
	analysisQueue.Start()

	batchProcessor := processor.NewBatchProcessor(gormDB, analysisQueue, cfg, logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	pipe := pipeline.New(fetcher, analyzer, analysisQueue, logger, tradeRepo)

	// Periodic pipeline runs
	sched := scheduler.NewScheduler(
		pipe,
		time.Duration(cfg.Scheduler.IntervalHours)*time.Hour,
		cfg.Scheduler.RunOnStartup,
		logger,
	)
	sched.Start()
	defer sched.Stop()

	// HTTP API
	handler := api.NewHandler(db, pipe, logger)
	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
