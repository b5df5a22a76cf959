package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/adapter/primary/worker"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/emailsender"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/kafkaproducer"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/shopify"
	"github.com/ruudy-sib/rewardhook/internal/config"
)

const appName = "rewardhook"

var version = "dev"

// application is everything run needs from the container. Optional members
// are only present when their feature is configured.
type application struct {
	dig.In
	Router   http.Handler
	Config   *config.Config
	Logger   *zap.Logger
	Shopify  *shopify.Client
	Worker   *worker.Worker          `optional:"true"`
	Redis    *goredis.Client         `optional:"true"`
	Producer *kafkaproducer.Producer `optional:"true"`
	Email    *emailsender.Sender     `optional:"true"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Root context with cancellation for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := buildContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	return c.Invoke(func(app application) {
		logger := app.Logger
		defer func() {
			// Clean up resources on shutdown.
			if err := app.Shopify.Close(); err != nil {
				logger.Error("error closing shopify client", zap.Error(err))
			}
			if app.Email != nil {
				if err := app.Email.Close(); err != nil {
					logger.Error("error closing email sender", zap.Error(err))
				}
			}
			if app.Producer != nil {
				if err := app.Producer.Close(); err != nil {
					logger.Error("error closing kafka producer", zap.Error(err))
				}
			}
			if app.Redis != nil {
				if err := app.Redis.Close(); err != nil {
					logger.Error("error closing redis", zap.Error(err))
				}
			}
			_ = logger.Sync()
		}()

		logger.Info("starting application",
			zap.String("app", appName),
			zap.String("version", version),
			zap.String("environment", cfg.Environment),
			zap.String("http_addr", cfg.HTTPAddr),
			zap.String("webhook_path", cfg.WebhookPath),
			zap.Strings("notification_sinks", cfg.NotificationSinks),
			zap.Bool("dedup_enabled", cfg.DedupEnabled),
		)

		errCh := make(chan error, 2)

		// Start the notification worker when email delivery is configured.
		workerCtx, workerCancel := context.WithCancel(ctx)
		defer workerCancel()

		if app.Worker != nil {
			go func() {
				errCh <- app.Worker.Run(workerCtx)
			}()
		}

		// Start the HTTP server.
		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           app.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if srvErr := server.ListenAndServe(); srvErr != nil && srvErr != http.ErrServerClosed {
				errCh <- fmt.Errorf("http server: %w", srvErr)
			}
		}()

		// Wait for shutdown signal.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		case srvErr := <-errCh:
			if srvErr != nil && srvErr != context.Canceled {
				logger.Error("service error", zap.Error(srvErr))
			}
		}

		// Graceful shutdown with timeout.
		logger.Info("shutting down gracefully")
		cancel()
		workerCancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", zap.Error(err))
		}

		logger.Info("shutdown complete")
	})
}
