package trackingservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"food-track/internal/general/config"
	"food-track/internal/general/jwt"
	"food-track/internal/general/logger"
	"food-track/internal/general/memcache"
	"food-track/internal/general/postgres"
	"food-track/internal/general/rabbitmq"
	"food-track/internal/general/rediscache"
	"food-track/internal/ports"
	"food-track/internal/realtime"
	"food-track/internal/software/tracking/handler"
	"food-track/internal/software/tracking/service"
)

// Run wires the tracking service and blocks until ctx is cancelled or the
// HTTP server fails.
func Run(ctx context.Context, maxConcurrent int) error {
	// set up a new logger with a static request ID for startup logs
	logger := logger.New("tracking-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load configuration from the environment (.env overlay for local runs)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// set up a Postgres connection pool (runs migrations on startup)
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// location cache: Redis when reachable, in-process fallback otherwise.
	// The cache is an availability optimization; the service must come up
	// without it.
	var cache ports.LocationCache
	redisCache, err := rediscache.Connect(ctx, cfg)
	if err != nil {
		logger.Warn(ctx, "redis_unavailable", "Redis unreachable; using in-process location cache", err, nil)
		cache = memcache.New(cfg.LocationCacheTTL)
	} else {
		defer redisCache.Close()
		cache = redisCache
	}

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()
	pub := rabbitmq.NewMQPublisher(rmq)

	// set up the JWT manager
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL)

	// set up the necessary repos
	uow := postgres.NewUnitOfWork(pool)
	orderRepo := postgres.NewOrderRepo()
	courierRepo := postgres.NewCourierRepo()
	userRepo := postgres.NewUserRepo()

	// realtime layer: rooms, guard and the tracking socket
	rooms := realtime.NewRoomManager(logger)
	defer rooms.Shutdown()
	guard := realtime.NewGuard(uow, orderRepo)
	authenticator := realtime.NewAuthenticator(jwtManager, uow, userRepo, courierRepo)

	// set up the tracking service
	svc := service.NewTrackingService(logger, uow, orderRepo, courierRepo, cache, rooms, pub, rmq)

	// start the background consumer feeding queued courier GPS reports
	svc.StartCourierFeed(ctx)

	// set up the HTTP handler and its routes
	mux := http.NewServeMux()
	httpHandler := handler.NewTrackingHTTPHandler(svc, logger, jwtManager, userRepo, uow)
	httpHandler.RegisterRoutes(mux)

	socket := realtime.NewSocket(logger, authenticator, guard, rooms, svc)
	socket.RegisterRoutes(mux)

	// concurrency limiter (global) — blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Tracking Service started on port %d", cfg.HTTPPort),
		map[string]any{"port": cfg.HTTPPort, "max_concurrent": maxConcurrent},
	)

	// start the server in a background goroutine
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
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.HTTPPort})
			return err
		}
		return nil
	}

	return nil
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
