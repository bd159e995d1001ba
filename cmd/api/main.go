package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agendafacil/booking-api/internal/config"
	"github.com/agendafacil/booking-api/internal/handler"
	availabilityHandler "github.com/agendafacil/booking-api/internal/handler/availability"
	authHandler "github.com/agendafacil/booking-api/internal/handler/auth"
	bookingHandler "github.com/agendafacil/booking-api/internal/handler/booking"
	catalogHandler "github.com/agendafacil/booking-api/internal/handler/catalog"
	requestHandler "github.com/agendafacil/booking-api/internal/handler/request"
	scheduleHandler "github.com/agendafacil/booking-api/internal/handler/schedule"
	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/middleware"
	"github.com/agendafacil/booking-api/internal/repository/postgres"
	"github.com/agendafacil/booking-api/internal/router"
	authService "github.com/agendafacil/booking-api/internal/service/auth"
	availabilityService "github.com/agendafacil/booking-api/internal/service/availability"
	bookingService "github.com/agendafacil/booking-api/internal/service/booking"
	catalogService "github.com/agendafacil/booking-api/internal/service/catalog"
	"github.com/agendafacil/booking-api/internal/service/notification"
	requestService "github.com/agendafacil/booking-api/internal/service/request"
	scheduleService "github.com/agendafacil/booking-api/internal/service/schedule"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	serviceRepo := postgres.NewServiceRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	requestRepo := postgres.NewServiceRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	memCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	notifier := notification.NewMailNotifier(cfg.SMTP, log.Logger)

	availabilitySvc := availabilityService.NewService(serviceRepo, scheduleRepo, bookingRepo, memCache, log.Logger, m)
	bookingSvc := bookingService.NewService(bookingRepo, availabilitySvc, notifier, log.Logger, m)
	requestSvc := requestService.NewService(requestRepo, serviceRepo, availabilitySvc, notifier, log.Logger, m)
	catalogSvc := catalogService.NewService(serviceRepo, memCache, log.Logger)
	scheduleSvc := scheduleService.NewService(scheduleRepo, memCache, log.Logger)
	authSvc := authService.NewService(userRepo, cfg.JWT, log.Logger)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Redis only serves the per-client write limiter; leave it off when
	// unconfigured.
	var writeLimiter *middleware.RedisRateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		writeLimiter = middleware.NewRedisRateLimiter(
			rdb, cfg.RateLimit.WritesPerHour, time.Hour, "booking:rl", log.Logger)
	}

	handler.RegisterValidators()

	h := handler.NewHandler(db)
	r := router.NewRouter(
		authMiddleware,
		writeLimiter,
		h,
		authHandler.NewHandler(authSvc),
		availabilityHandler.NewHandler(availabilitySvc),
		catalogHandler.NewHandler(catalogSvc),
		bookingHandler.NewHandler(bookingSvc),
		requestHandler.NewHandler(requestSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		registry,
		router.Config{
			RPS:           cfg.RateLimit.RequestsPerSecond,
			Burst:         cfg.RateLimit.Burst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:          middleware.DefaultCORSConfig(),
			MetricsPrefix: "booking_api",
			Logger:        log.Logger,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
