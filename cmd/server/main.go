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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httpdelivery "github.com/mkamau/daraja-gateway/internal/delivery/http"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/config"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/daraja"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/observability"
	"github.com/mkamau/daraja-gateway/internal/usecase/submitpayment"
)

const (
	readHeaderTimeout     = 5 * time.Second
	gracefulShutdownDelay = 5 * time.Second
	tokenSafetyMargin     = 30 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", zap.Error(err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	client := daraja.NewClient(daraja.ClientConfig{
		BaseURL:        cfg.BaseURL,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		Timeout:        cfg.ProviderTimeout,
	}, logger, metrics)

	tokens := daraja.NewTokenCache(client, tokenSafetyMargin, metrics)

	submitUC := submitpayment.NewUseCase(tokens, client, submitpayment.Config{
		ShortCode:   cfg.ShortCode,
		Passkey:     cfg.Passkey,
		CallbackURL: cfg.CallbackURL,
	}, logger, metrics)

	handler := httpdelivery.NewHandler(submitUC, logger)
	router := httpdelivery.NewRouter(handler, registry)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http serve failed", zap.Error(serveErr))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownDelay)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
