package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/config"
	"quote-pipeline-api/internal/database"
	"quote-pipeline-api/internal/job"
	"quote-pipeline-api/internal/metrics"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Quote Pipeline API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Initialize metrics
	m := metrics.NewWithLogger(logger)

	// Initialize S3 client
	var s3Client client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, attachment uploads disabled", zap.Error(err))
		} else {
			s3Client = s3
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, attachment uploads disabled")
	}

	// Pick the mailer: SMTP when configured, log-only otherwise
	var mailer client.Mailer
	if cfg.SMTP.Host != "" {
		smtpMailer, err := client.NewSMTPMailer(cfg.SMTP, logger)
		if err != nil {
			logger.Warn("Failed to initialize SMTP mailer, falling back to log delivery", zap.Error(err))
			mailer = client.NewLogMailer(logger)
		} else {
			mailer = smtpMailer
			logger.Info("SMTP mailer initialized", zap.String("host", cfg.SMTP.Host))
		}
	} else {
		mailer = client.NewLogMailer(logger)
		logger.Info("No SMTP host configured, reminders are logged only")
	}

	// Initialize database; if unavailable at startup, keep retrying in
	// the background so the pod stays alive. Everything that needs a
	// live handle (migrations, the reminder sweep, business gauges)
	// starts from onDBReady, so the deferred-connect path gets it too.
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	var (
		jobMu       sync.Mutex
		scheduler   *cron.Cron
		collector   *metrics.BusinessMetricsCollector
		dbStatsDone chan struct{}
	)

	onDBReady := func(db *gorm.DB) {
		if err := database.AutoMigrate(db); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}

		database.RegisterMetricsCallbacks(db, m)

		reminderJob := job.NewReminderJob(repository.NewQuoteRepository(db), mailer, m, logger)
		s := cron.New()
		interval := cfg.Reminder.Interval
		if interval <= 0 {
			interval = time.Minute
		}
		if _, err := s.AddJob(fmt.Sprintf("@every %s", interval), reminderJob); err != nil {
			logger.Error("Failed to schedule reminder job", zap.Error(err))
		} else {
			s.Start()
			logger.Info("Reminder job scheduled", zap.Duration("interval", interval))
		}

		// Periodic business gauges (quotes, customers, open tasks)
		c := metrics.NewBusinessMetricsCollector(db, m, logger)
		c.Start()

		jobMu.Lock()
		scheduler = s
		collector = c
		dbStatsDone = database.StartDBStatsCollector(db, m)
		jobMu.Unlock()
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second, onDBReady)
	} else {
		logger.Info("Database connected successfully")
		database.SetDB(db)
		onDBReady(db)
	}

	// Initialize redis for the board listing cache; optional
	if err := database.InitRedis(cfg.Redis, logger); err != nil {
		logger.Warn("Failed to connect to redis, board cache disabled", zap.Error(err))
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		JWT:            cfg.JWT,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		S3Client:       s3Client,
		Cache:          database.GetRedis(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Quote Pipeline API started successfully",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	jobMu.Lock()
	if scheduler != nil {
		scheduler.Stop()
	}
	if collector != nil {
		collector.Stop()
	}
	if dbStatsDone != nil {
		close(dbStatsDone)
	}
	jobMu.Unlock()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
