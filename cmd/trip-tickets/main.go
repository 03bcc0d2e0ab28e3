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

	"github.com/gin-gonic/gin"

	"github.com/nurpe/motorpool-trip-tickets/internal/auth"
	"github.com/nurpe/motorpool-trip-tickets/internal/config"
	httphandler "github.com/nurpe/motorpool-trip-tickets/internal/http"
	"github.com/nurpe/motorpool-trip-tickets/internal/http/middleware"
	"github.com/nurpe/motorpool-trip-tickets/internal/logger"
	"github.com/nurpe/motorpool-trip-tickets/internal/service"
	"github.com/nurpe/motorpool-trip-tickets/internal/sink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forms := service.NewFormStore(cfg.Form.SessionTTL)
	go forms.Run(ctx, time.Minute)

	recordSink := sink.NewClient(cfg.Sink.URL, cfg.Sink.Timeout, log, sink.WithOKStatuses(cfg.Sink.OKStatuses))
	tripService := service.NewTripTicketService(forms, recordSink, cfg, log)

	var authMiddleware gin.HandlerFunc
	if cfg.Auth.AccessSecret != "" {
		authMiddleware = middleware.Auth(auth.NewParser(cfg.Auth.AccessSecret))
	} else {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, trip ticket API is unauthenticated")
	}

	handler := httphandler.NewHandler(tripService, log)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterOptions{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Str("sink", cfg.Sink.URL).Msg("starting trip ticket service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
