package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"residency-sync/internal/domain/repository"
	"residency-sync/internal/infrastructure/config"
	"residency-sync/internal/infrastructure/oauth"
	"residency-sync/internal/infrastructure/persistence"
	"residency-sync/internal/interface/gcal"
	gmailSource "residency-sync/internal/interface/gmail"
	repo "residency-sync/internal/interface/repository"
	"residency-sync/internal/usecase"
	"residency-sync/pkg/extract"
	"residency-sync/pkg/logger"
	"residency-sync/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting Residency Sync Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Airport gazetteer: Postgres table when configured, built-in otherwise
	var airportRepo repository.AirportRepository
	if cfg.GazetteerDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.GazetteerDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to gazetteer database", "error", err)
		}
		airportRepo, err = repo.NewGormAirportRepository(gormDB)
		if err != nil {
			log.Fatal("Failed to load airport gazetteer", "error", err)
		}
	} else {
		airportRepo = repo.NewStaticAirportRepository()
	}

	// Set up repositories and core components
	locationRepo := repo.NewMongoLocationRecordRepository(db)

	var notifier repository.TravelNotifier
	if cfg.ConflictWebhookURL != "" {
		notifier = repo.NewWebhookNotifier(cfg.ConflictWebhookURL, cfg.ConflictWebhookToken, log)
	}

	m := metrics.NewMetrics("residency_sync")
	parser := extract.NewBookingParser(airportRepo, log)
	classifier := usecase.NewKeywordClassifier(log)
	extractor := usecase.NewBookingExtractor(parser, classifier, log)
	reconciler := usecase.NewReconciler(log)

	// Set up Google OAuth and item sources
	googleOAuth := oauth.NewGoogleOAuth(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRefreshToken,
		log,
	)
	tokenSource := googleOAuth.GetTokenSource(ctx)

	mailSource, err := gmailSource.NewMailSource(ctx, tokenSource, cfg.HotelFolder, cfg.FlightFolder, log)
	if err != nil {
		log.Fatal("Failed to create Gmail source", "error", err)
	}

	calendarSource, err := gcal.NewCalendarSource(ctx, tokenSource, cfg.CalendarID, log)
	if err != nil {
		log.Fatal("Failed to create Calendar source", "error", err)
	}

	orchestrator := usecase.NewSyncOrchestrator(
		calendarSource,
		mailSource,
		extractor,
		reconciler,
		locationRepo,
		notifier,
		m,
		log,
	)

	// Periodic sync loop with a short look-back/ahead window
	go func() {
		runSync := func() {
			now := time.Now()
			window := usecase.SyncWindow{
				Start: now.AddDate(0, 0, -cfg.LookbackDays),
				End:   now.AddDate(0, 0, cfg.LookaheadDays),
			}
			if _, err := orchestrator.RunSync(ctx, window); err != nil {
				log.Error("Sync run failed", "error", err)
			}
		}

		runSync()

		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Sync loop stopped")
				return
			case <-ticker.C:
				runSync()
			}
		}
	}()

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Residency Sync Service stopped")
}
