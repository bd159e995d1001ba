package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agendafacil/booking-api/internal/config"
	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/repository/postgres"
	"github.com/agendafacil/booking-api/internal/service/notification"
	"github.com/agendafacil/booking-api/internal/worker"
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

	m := metrics.New(prometheus.NewRegistry())
	notifier := notification.NewMailNotifier(cfg.SMTP, log.Logger)

	w := worker.NewReminderWorker(
		postgres.NewBookingRepository(db),
		notifier,
		cfg.SMTP.AdminEmail,
		cfg.Business.Location(),
		cfg.Business.ReminderHour,
		log.Logger,
		m,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down worker...")
		cancel()
	}()

	w.Run(ctx)
	log.Info().Msg("worker exited properly")
}
