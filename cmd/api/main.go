package main

import (
	"context"
	"log"
	"time"

	"courier-tracker/internal/core/cache"
	"courier-tracker/internal/core/config"
	"courier-tracker/internal/core/httpclient"
	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/core/proxy"
	"courier-tracker/internal/core/server"
	trackingadapter "courier-tracker/internal/features/tracking/adapters"
	trackinghandler "courier-tracker/internal/features/tracking/handler"
	"courier-tracker/internal/features/tracking/ports"
	trackingservice "courier-tracker/internal/features/tracking/service"
	maphandler "courier-tracker/internal/features/trackingmap/handler"
	mapservice "courier-tracker/internal/features/trackingmap/service"

	"go.uber.org/zap"
)

// @title Courier Tracker API
// @version 1.0
// @description Order tracking for the storefront: resolves mobile numbers to courier doc ids and fetches their checkpoints from trackcourier.io.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	timeout := time.Duration(cfg.Courier.TimeoutSeconds) * time.Second
	proxySettings := proxy.FromConfig(cfg.Proxy)
	courierClient := httpclient.NewClient(timeout, httpclient.WithProxy(proxySettings))
	siteClient := httpclient.NewClient(timeout)

	// Initialize Tracking Provider
	var opts []trackingadapter.Option
	if cfg.Courier.BrowserFallback {
		l.Info("Browser table key fallback enabled", zap.Bool("proxy_enabled", proxySettings.HasProxy()))
		opts = append(opts, trackingadapter.WithTableKeyFallback(
			trackingadapter.NewBrowserTableKeySource(cfg.Courier.BaseURL, proxySettings, 0),
		))
	}
	trackCourier := trackingadapter.NewTrackCourierAdapter(cfg.Courier, courierClient, opts...)

	trackingSvc := trackingservice.NewTrackingService([]ports.TrackingProvider{trackCourier})

	// Initialize Tracking Map Store
	var kv cache.Cache
	if cfg.TrackingMap.KVURL != "" {
		kv, err = cache.New(cfg.TrackingMap.KVURL, cfg.TrackingMap.KVToken, siteClient)
		if err != nil {
			l.Fatal("Invalid KV configuration", zap.Error(err))
		}
		defer kv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := kv.Ping(ctx); err != nil {
			l.Warn("KV store unreachable, reads will fall back to files", zap.Error(err))
		} else {
			l.Info("KV store connection verified")
		}
		cancel()
	}

	store := mapservice.NewStore(mapservice.Config{
		KVKey:        cfg.TrackingMap.KVKey,
		BaseURL:      cfg.TrackingMap.PublicBaseURL,
		DataPath:     cfg.TrackingMap.DataPath,
		PublicPath:   cfg.TrackingMap.PublicPath,
		IsProduction: cfg.IsProduction(),
	}, kv, siteClient)

	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc, store, cfg.Courier)
	adminHdl := maphandler.NewAdminHandler(store, cfg.Admin.Password)

	srv := server.New(cfg)

	// Register Routes
	srv.API.All("/track-by-mobile", trackingHdl.TrackByMobile)
	srv.API.All("/trackcourier", trackingHdl.TrackCourier)
	srv.API.All("/admin/tracking-map", adminHdl.TrackingMap)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
