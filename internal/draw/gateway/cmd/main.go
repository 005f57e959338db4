// Standalone gateway: serves status reads and websocket subscriptions, fed by
// the relay's JetStream events instead of an in-process scheduler. Lets the
// websocket fan-out scale separately from the draw engine.
package main

import (
	"context"
	"errors"
	"fmt"
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

	database, err := dbconfig.NewConfigFromEnv().Open()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	queries := db.New(database)
	app := draw.NewApp(draw.NewRepository(queries), membership.NewRepository(queries), clockwork.NewRealClock())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := gateway.NewHub(gateway.DefaultConnectionConfig())
	go hub.Run(ctx)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	if url := os.Getenv("NATS_URL"); url != "" {
		consumerCfg.URL = url
	}
	consumer, err := gateway.NewEventConsumer(hub, consumerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event consumer")
	}
	defer consumer.Close()

	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("event consumer failed")
		}
	}()

	mux := http.NewServeMux()
	gateway.NewService(app, nil, hub).RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: gateway.CORSMiddleware(nil, mux),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("draw gateway listening")
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
	cancel()
}
