// @title        Delivery Map API
// @version      1.0
// @description  GeoJSON views of delivery tracking records.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/99minutos/delivery-map/internal/api"
	"github.com/99minutos/delivery-map/internal/core/mapper"
	"github.com/99minutos/delivery-map/internal/core/ports"
	"github.com/99minutos/delivery-map/internal/core/service"
	"github.com/99minutos/delivery-map/internal/infrastructure/airtable"
	"github.com/99minutos/delivery-map/internal/infrastructure/db/mongo"
	"github.com/99minutos/delivery-map/internal/pkg/config"
	"github.com/99minutos/delivery-map/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// main is the composition root. It wires the record store behind ports and
// starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "delivery-map",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	recordMapper, err := mapper.ForProfile(mapper.Profile(cfg.Geometry.RecordProfile))
	if err != nil {
		log.Fatal().Err(err).Msg("record profile")
	}
	scanMapper, err := mapper.ForProfile(mapper.Profile(cfg.Geometry.ScanProfile))
	if err != nil {
		log.Fatal().Err(err).Msg("scan profile")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("record store")
	}
	defer closeStore()

	svc := service.NewTrackingService(store, service.TrackingConfig{
		Table:  cfg.Store.Table,
		View:   cfg.Store.View,
		Record: recordMapper,
		Scan:   scanMapper,
	}, log)

	router := api.NewRouter(api.Deps{
		Service:   svc,
		Store:     store,
		StoreName: cfg.Store.Backend,
		PublicDir: cfg.PublicDir,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Store.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Store.Backend).
			Str("table", cfg.Store.Table).
			Str("view", cfg.Store.View).
			Strs("record_rules", recordMapper.RuleNames()).
			Strs("scan_rules", scanMapper.RuleNames()).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore builds the configured record store and its cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (ports.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		return mongo.NewRecordRepository(db), closeFn, nil
	default:
		client, err := airtable.NewClient(airtable.Config{
			APIKey:    cfg.Airtable.APIKey,
			BaseID:    cfg.Airtable.BaseID,
			Endpoint:  cfg.Airtable.Endpoint,
			Timeout:   cfg.Store.Timeout,
			PingTable: cfg.Store.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}
