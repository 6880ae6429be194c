package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/config"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/ws"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/postgres"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/rabbitmq"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/rediscache"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/maps"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/notify"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/places"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/tracking"

	adminhandler "github.com/Chaitanyahoon/fuel-n-fix/internal/software/adminboard/handler"
	adminservice "github.com/Chaitanyahoon/fuel-n-fix/internal/software/adminboard/service"
	dispatchhandler "github.com/Chaitanyahoon/fuel-n-fix/internal/software/dispatch/handler"
	dispatchservice "github.com/Chaitanyahoon/fuel-n-fix/internal/software/dispatch/service"
	orderhandler "github.com/Chaitanyahoon/fuel-n-fix/internal/software/orders/handler"
	orderservice "github.com/Chaitanyahoon/fuel-n-fix/internal/software/orders/service"
	trackerhandler "github.com/Chaitanyahoon/fuel-n-fix/internal/software/tracker/handler"
)

// run wires every component of the service and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	logger := log.New("fuelnfix")
	ctx = contextx.WithRequestID(ctx, "startup-001")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error(ctx, logger, "config_load_failed", "Failed to load configuration", err)
		return err
	}
	log.Info(ctx, logger, "config_loaded", "Configuration loaded successfully")

	// ----- infrastructure -----

	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		log.Error(ctx, logger, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		log.Error(ctx, logger, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	pub := rabbitmq.NewMQPublisher(rmq)
	feed := rabbitmq.NewLocationFeed(rmq, logger)

	cache, err := rediscache.NewLocationCache(ctx, cfg, logger)
	if err != nil {
		log.Error(ctx, logger, "redis_connection_failed", "Failed to connect to Redis", err)
		return err
	}
	defer func() { _ = cache.Close() }()

	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, cfg.JWT.TTL.Std())
	hub := ws.NewHub(logger)

	// maps script preload is best effort; delivery works without it
	mapsLoader := maps.NewLoader(os.Getenv("GOOGLE_MAPS_API_KEY"), mapsScriptFetcher(), logger)
	go func() {
		if err := mapsLoader.Load(ctx); err != nil {
			log.Error(ctx, logger, "maps_preload_failed", "Maps script preload failed", err)
		}
	}()

	// ----- repositories -----

	uow := postgres.NewUnitOfWork(pool)
	orderRepo := postgres.NewOrderRepo()
	orderEventRepo := postgres.NewOrderEventRepo()
	providerRepo := postgres.NewProviderRepo()
	coordsRepo := postgres.NewCoordinatesRepo()
	userRepo := postgres.NewUserRepo()

	finder := places.NewCatalogFinder()
	notifier := notify.NewLogNotifier(logger)

	timings := tracking.Timings{
		PrepDelayMin: cfg.Tracking.PrepDelayMin.Std(),
		PrepDelayMax: cfg.Tracking.PrepDelayMax.Std(),
		TickInterval: cfg.Tracking.TickInterval.Std(),
		GraceDelay:   cfg.Tracking.GraceDelay.Std(),
	}

	demoMode := os.Getenv("FUELNFIX_DEMO_MODE") == "1"

	// ----- services -----

	orderSvc := orderservice.NewOrderService(logger, uow, orderRepo, coordsRepo, pub, rmq, hub, finder, notifier, demoMode)
	dispatchSvc := dispatchservice.NewDispatchService(logger, uow, providerRepo, orderRepo, orderEventRepo, coordsRepo, cache, pub, rmq, hub, notifier)
	adminSvc := adminservice.NewAdminService(uow, orderRepo, providerRepo)

	orderSvc.RunBackgroundConsumers(ctx)
	dispatchSvc.StartBackgroundConsumer(ctx)

	// ----- HTTP surface -----

	mux := http.NewServeMux()
	orderhandler.NewOrderHTTPHandler(orderSvc, userRepo, providerRepo, uow, logger, jwtManager, finder, hub).RegisterRoutes(mux)
	dispatchhandler.NewDispatchHTTPHandler(dispatchSvc, logger, jwtManager, hub).RegisterRoutes(mux)
	adminhandler.NewAdminHTTPHandler(adminSvc, logger, jwtManager).RegisterRoutes(mux)
	trackerhandler.NewTrackerHTTPHandler(logger, jwtManager, uow, orderRepo, providerRepo, coordsRepo, cache, feed, timings).RegisterRoutes(mux)

	// concurrency limiter (global); blocks when capacity is full
	limitedHandler := withConcurrencyLimit(cfg.HTTP.MaxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info(ctx, logger, "service_started",
		fmt.Sprintf("fuel-n-fix started on port %d", cfg.HTTP.Port))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info(ctx, logger, "shutdown_started", "Starting graceful shutdown")
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, logger, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error(ctx, logger, "http_server_error", "HTTP server terminated with error", err)
			return err
		}
	}

	return nil
}

// mapsScriptFetcher validates that the Google Maps JS bundle is reachable
// with the configured key.
func mapsScriptFetcher() maps.ScriptFetcher {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return func(ctx context.Context, apiKey string) error {
		endpoint := "https://maps.googleapis.com/maps/api/js?key=" + url.QueryEscape(apiKey) + "&libraries=places"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("maps script fetch returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
