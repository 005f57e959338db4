package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw/gateway"
)

func setupServer(cfg *Config, service *gateway.Service) *http.Server {
	mux := http.NewServeMux()

	service.RegisterRoutes(mux)
	setupHealthCheck(mux)

	handler := gateway.CORSMiddleware(cfg.HTTP.AllowedOrigins, mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler: handler,
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
