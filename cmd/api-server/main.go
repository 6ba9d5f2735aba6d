package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vetdesk/booking/internal/api"
	"github.com/vetdesk/booking/internal/appointment"
	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/config"
	"github.com/vetdesk/booking/internal/db"
	"github.com/vetdesk/booking/internal/doctor"
	"github.com/vetdesk/booking/internal/identity"
	"github.com/vetdesk/booking/internal/notification"
	"github.com/vetdesk/booking/internal/pet"
	redisclient "github.com/vetdesk/booking/internal/redis"
	"github.com/vetdesk/booking/internal/user"
	"github.com/vetdesk/booking/internal/ws"
)

const version = "0.3.0"

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "api-server").Logger()
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	bus := redisclient.NewBus(rdb, log)
	hub := ws.NewHub()
	dispatcher := notification.NewDispatcher(bus, log)

	users := user.NewPgRepository(pgPool)
	pets := pet.NewPgRepository(pgPool)
	profiles := availability.NewPgRepository(pgPool)
	notifications := notification.NewPgRepository(pgPool)
	appointments := appointment.NewPgRepository(pgPool, notifications)
	applications := doctor.NewPgRepository(pgPool)

	router := api.NewRouter(api.RouterConfig{
		Appointments:  appointment.NewService(appointments, profiles, users, pets, dispatcher),
		Availability:  availability.NewService(profiles),
		Applications:  doctor.NewService(applications),
		Notifications: notifications,
		WS:            ws.NewHandler(hub, tokens, log),
		Tokens:        tokens,
		PgPool:        pgPool,
		Redis:         rdb,
		Logger:        log,
		Env:           cfg.Env,
		Version:       version,
	})

	// Relay bus messages into this instance's live connections.
	go func() {
		err := bus.Run(rootCtx, func(recipientID uuid.UUID, payload []byte) {
			hub.Send(recipientID, payload)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("notification bus stopped")
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
}
