// ABOUTME: serve command: runs the HTTP API until interrupted
// ABOUTME: Shuts down gracefully on SIGINT/SIGTERM

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelsearch-api/pkg/config"
	"modelsearch-api/pkg/featureflags"
)

const shutdownTimeout = 30 * time.Second

func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(func() (*config.Config, error) { return config.Load(v) })
	if err != nil {
		return err
	}

	printBanner(cmd.OutOrStdout())

	logger := newLogger(cfg, nil)
	flags := featureflags.NewEnvManager("FEATURE_")

	a, err := buildApp(cfg, logger, flags)
	if err != nil {
		return err
	}

	logger.Info("Starting Model Search API", map[string]interface{}{
		"port":         cfg.Server.Port,
		"http_timeout": cfg.Server.HTTPTimeout.String(),
		"sources":      a.service.Sources(),
		"rate_limit":   cfg.RateLimit.Limit,
		"metrics":      a.provider.Enabled(),
	})

	limiter, err := buildLimiter(cfg, logger)
	if err != nil {
		return err
	}

	router, err := buildRouter(a, limiter)
	if err != nil {
		return err
	}

	// an aggregation can take up to the upstream timeout
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case <-quit:
	}

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	if limiter != nil {
		if err := limiter.Close(); err != nil {
			logger.Warn("Failed to close rate limiter", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if err := a.provider.Shutdown(ctx); err != nil {
		logger.Warn("Failed to shut down metrics provider", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
	return nil
}
