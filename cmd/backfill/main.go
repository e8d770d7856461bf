// One-off historical backfill: runs a single sync over a full tax year
// instead of the server's short rolling window. Same core path, bigger
// window.
package main

import (
	"context"
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

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting historical backfill", "taxYear", cfg.TaxYear)

	ctx := context.Background()

	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

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

	locationRepo := repo.NewMongoLocationRecordRepository(db)

	m := metrics.NewMetrics("residency_backfill")
	parser := extract.NewBookingParser(airportRepo, log)
	classifier := usecase.NewKeywordClassifier(log)
	extractor := usecase.NewBookingExtractor(parser, classifier, log)
	reconciler := usecase.NewReconciler(log)

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
		nil, // no conflict webhook during backfill, conflicts stay on the records
		m,
		log,
	)

	window := usecase.SyncWindow{
		Start: time.Date(cfg.TaxYear, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(cfg.TaxYear+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	result, err := orchestrator.RunSync(ctx, window)
	if err != nil {
		log.Fatal("Backfill failed", "error", err)
	}

	log.Info("Backfill completed",
		"updates", result.UpdatesApplied,
		"new", result.NewCount,
		"merged", result.MergedCount,
		"skipped", result.SkippedCount)
}
