package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/let5sne/IOPaint/internal/config"
	"github.com/let5sne/IOPaint/internal/container"
	"github.com/let5sne/IOPaint/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logger.Configure(logger.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	defer logFile.Close()

	// Initialize dependency injection container
	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	logger.WithFields(logrus.Fields{
		"model":          cfg.ModelName,
		"device":         cfg.Device,
		"engine":         c.EngineName(),
		"max_image_size": cfg.MaxImageSize,
		"api_key":        cfg.MaskedAPIKey(),
		"metrics":        cfg.MetricsEnabled,
	}).Info("IOPaint watermark removal API starting")
	if cfg.UsesDefaultAPIKey() {
		logger.Warn("API_KEY is the default placeholder; set a secret before exposing the service")
	}

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"address":      cfg.ServerAddress(),
			"read_timeout": cfg.ReadTimeout,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	c.Close()

	if cfg.MetricsEnabled {
		s := c.Stats()
		logger.WithFields(logrus.Fields{
			"total":                 s.TotalRequests,
			"success":               s.SuccessfulRequests,
			"failed":                s.FailedRequests,
			"total_processing_time": s.TotalProcessingTime.Seconds(),
			"avg_processing_time":   s.AvgProcessingTime().Seconds(),
		}).Info("Final statistics")
	}

	logger.Info("Server exited")
}
