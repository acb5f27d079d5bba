package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/disaster-events-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/disaster-events-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-events-service/internal/adapter/mapbox"
	"github.com/couchcryptid/disaster-events-service/internal/aggregate"
	"github.com/couchcryptid/disaster-events-service/internal/alert"
	"github.com/couchcryptid/disaster-events-service/internal/config"
	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/ingest"
	"github.com/couchcryptid/disaster-events-service/internal/intake"
	"github.com/couchcryptid/disaster-events-service/internal/observability"
	"github.com/couchcryptid/disaster-events-service/internal/process"
	"github.com/couchcryptid/disaster-events-service/internal/store"
	"github.com/couchcryptid/disaster-events-service/internal/store/rtdb"
	"github.com/couchcryptid/disaster-events-service/internal/store/sqlite"
	"github.com/couchcryptid/disaster-events-service/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	feed := store.NewSeverityFeed(cfg.SeverityFeedBuffer, metrics.SeverityFeedDropped.Inc)

	relational, err := sqlite.Open(cfg.SQLitePath, feed)
	if err != nil {
		logger.Error("failed to open relational store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	realtime := rtdb.New(feed)

	// Geocoding enrichment (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	apiIntake := intake.New(relational, geocoder, "api", logger, metrics)
	processor := process.New([]store.EventStore{relational, realtime}, logger, metrics)
	aggregator := aggregate.New(relational, realtime, logger, metrics)

	// Alert dispatch falls back to log-only when Kafka is disabled.
	var dispatcher alert.Dispatcher = alert.NewLogDispatcher(logger)
	var alertWriter *kafkaadapter.AlertWriter
	var reportReader *kafkaadapter.Reader
	if cfg.KafkaEnabled {
		alertWriter = kafkaadapter.NewAlertWriter(cfg, logger)
		dispatcher = alertWriter
		reportReader = kafkaadapter.NewReader(cfg, logger)
		logger.Info("kafka enabled",
			"reports_topic", cfg.KafkaReportsTopic,
			"alerts_topic", cfg.KafkaAlertsTopic,
		)
	} else {
		logger.Info("kafka disabled, using log-only alert dispatch")
	}

	watcher := watch.New(feed, dispatcher, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.Deps{
		Intake:     apiIntake,
		Aggregator: aggregator,
		Processor:  processor,
		Relational: relational,
		Realtime:   realtime,
		Ready:      httpapi.ReadinessFunc(relational.Ping),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start severity watcher.
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Error("severity watcher error", "error", err)
		}
	}()

	// Start remote report consumer.
	if reportReader != nil {
		remoteIntake := intake.New(realtime, geocoder, "remote", logger, metrics)
		consumer := ingest.New(reportReader, remoteIntake, logger, metrics, cfg.BatchSize)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("remote report consumer error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reportReader != nil {
		if err := reportReader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := relational.Close(); err != nil {
		logger.Error("relational store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
