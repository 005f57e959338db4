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
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/dbconfig"
	"github.com/pasanaku/pasanaku/internal/draw"
	"github.com/pasanaku/pasanaku/internal/draw/db"
	"github.com/pasanaku/pasanaku/internal/draw/gateway"
	"github.com/pasanaku/pasanaku/internal/draw/outbox"
	"github.com/pasanaku/pasanaku/internal/draw/scheduler"
	"github.com/pasanaku/pasanaku/internal/membership"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := dbconfig.NewConfigFromEnv().Open()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	queries := db.New(database)
	clock := clockwork.NewRealClock()

	repo := draw.NewRepository(queries)
	members := membership.NewRepository(queries)
	app := draw.NewApp(repo, members, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := gateway.NewHub(gateway.DefaultConnectionConfig())
	go hub.Run(ctx)

	sched := scheduler.New(app, hub, clock, scheduler.Config{
		RevealInterval: time.Duration(cfg.Draw.RevealInterval),
		MaxRetries:     cfg.Draw.MaxRetries,
		RetryBackoff:   time.Duration(cfg.Draw.RetryBackoff),
	})
	if err := sched.Recover(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to recover in-progress sessions")
	}

	if cfg.Outbox.Enabled {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATS.URL
		publisher, err := outbox.NewJetStreamPublisher(jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create outbox publisher")
		}
		defer publisher.Close()

		relay := outbox.NewRelay(outbox.NewRepository(queries), publisher, clock, outbox.RelayConfig{
			PollInterval: time.Duration(cfg.Outbox.PollInterval),
			BatchSize:    cfg.Outbox.BatchSize,
		})
		go relay.Run(ctx)
	}

	service := gateway.NewService(app, sched, hub)
	server := setupServer(cfg, service)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("draw server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Runners stop here; sessions stay IN_PROGRESS and resume on next start.
	sched.Stop()
	cancel()
	log.Info().Msg("shutdown complete")
}
