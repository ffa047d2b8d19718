// Package main runs the pairwise sequence alignment service.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ivcap-works/pairwise-align/internal/config"
	"github.com/ivcap-works/pairwise-align/internal/middleware"
	"github.com/ivcap-works/pairwise-align/internal/service"
)

const limiterCleanupInterval = 5 * time.Minute

func main() {
	// A .env file is optional; environment set by the platform wins.
	_ = godotenv.Load()

	host := flag.String("host", "", "Host to bind to (overrides config)")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	delay := flag.Int("delay", -1, "Artificial processing delay in seconds (overrides config)")
	configPath := flag.String("config", "", "Path to YAML config file")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	}
	log := logrus.NewEntry(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Flags win over both the file and the environment.
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *delay >= 0 {
		cfg.Delay = *delay
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.WithFields(logrus.Fields{
		"addr":    cfg.Addr(),
		"delay":   cfg.Delay,
		"version": config.Version(),
	}).Info("starting pairwise alignment service")

	svc := service.New(service.Config{
		Delay:  cfg.DelayDuration(),
		JobTTL: cfg.JobTTLDuration(),
		Log:    log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start service")
	}

	router := svc.Router()
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, log)
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(limiterCleanupInterval)
			case <-ctx.Done():
				return
			}
		}
	}()

	cors := middleware.NewCORSMiddleware(cfg.AllowedOrigins)
	handler := cors.Handler(limiter.Handler(middleware.JSONRPCMiddleware(router)))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.WithField("signal", sig.String()).Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	if err := svc.Stop(); err != nil {
		log.WithError(err).Error("service stop error")
	}
	log.Info("stopped")
}
