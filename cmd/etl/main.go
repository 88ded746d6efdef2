package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/air-quality-etl/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/air-quality-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/air-quality-etl/internal/adapter/kafka"
	"github.com/couchcryptid/air-quality-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/air-quality-etl/internal/config"
	"github.com/couchcryptid/air-quality-etl/internal/dashboard"
	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
	"github.com/couchcryptid/air-quality-etl/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tables, err := config.LoadBreakpoints(cfg.BreakpointsFile)
	if err != nil {
		logger.Error("failed to load breakpoints", "error", err, "path", cfg.BreakpointsFile)
		os.Exit(1)
	}
	converter := domain.NewConverter(tables)
	schema, _ := domain.SchemaByName(cfg.DatasetSchema) // validated by config.Load

	dash := dashboard.NewController(schema, converter,
		dashboard.WithTopLimit(cfg.TopCitiesLimit),
		dashboard.WithRankField(cfg.RankField),
		dashboard.WithLogger(logger),
		dashboard.WithMetrics(metrics),
	)
	if cfg.DatasetPath != "" {
		records, err := dataset.LoadCSV(cfg.DatasetPath)
		if err != nil {
			logger.Error("failed to load dataset", "error", err)
			os.Exit(1)
		}
		dash.Load(records)
	}

	var featureNames []string
	if cfg.GeoJSONPath != "" {
		featureNames, err = dataset.LoadFeatureNames(cfg.GeoJSONPath)
		if err != nil {
			logger.Error("failed to load map features", "error", err)
			os.Exit(1)
		}
		logger.Info("map features loaded", "count", len(featureNames))
	}

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(schema, converter, geocoder, metrics, logger)

	p := pipeline.New(reader, transformer, pipeline.MultiLoader{writer, dash}, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, readiness{pipeline: p, dash: dash}, dash, httpadapter.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		FeatureNames:   featureNames,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// readiness is ready once a static dataset is loaded or the pipeline has
// delivered its first batch.
type readiness struct {
	pipeline *pipeline.Pipeline
	dash     *dashboard.Controller
}

func (r readiness) CheckReadiness(ctx context.Context) error {
	if r.dash.Len() > 0 {
		return nil
	}
	return r.pipeline.CheckReadiness(ctx)
}
