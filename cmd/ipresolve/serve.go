package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasB/ipresolve/internal/config"
	"github.com/TomasB/ipresolve/internal/data"
	"github.com/TomasB/ipresolve/internal/handler/health"
	"github.com/TomasB/ipresolve/internal/handler/resolve"
	"github.com/TomasB/ipresolve/internal/lookup"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP lookup service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			return runServe(cfg, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to PORT env or 8080)")

	return cmd
}

func runServe(cfg config.Config, port string) error {
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	// Set Gin mode based on log level
	if getLogLevel(cfg.LogLevel) == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	asnPath, cityPath, err := cfg.DatabasePaths()
	if err != nil {
		return err
	}
	reader, err := data.NewReloadableReader(asnPath, cityPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	slog.Info("databases loaded", "asn", asnPath, "city", cityPath)

	// Reload the readers when the database files are replaced on disk.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		if err := reader.Watch(watchDone); err != nil {
			slog.Error("database watcher stopped", "error", err)
		}
	}()

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(ginLogger(slog.Default()))
	router.Use(gin.Recovery())

	// Register health endpoints
	healthHandler := health.NewHandler(func() error {
		// A probe lookup proves the readers are loaded; not-found is a
		// healthy answer here.
		_, err := reader.LookupASN(net.ParseIP("192.0.2.1"))
		if err != nil && !errors.Is(err, data.ErrNotFound) {
			return err
		}
		return nil
	})
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Register API endpoints
	service := lookup.NewService(reader)
	batch := lookup.NewBatch(service, cfg.Workers, nil)
	resolveHandler := resolve.NewHandler(service, batch)
	api := router.Group("/api/v1")
	{
		api.GET("/lookup/:ip", resolveHandler.Lookup)
		api.POST("/lookup", resolveHandler.BatchLookup)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("service started", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("service shutting down")

	// Graceful shutdown with 30s timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("service stopped")
	return nil
}

// ginLogger creates a Gin middleware that logs using slog
func ginLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request
		duration := time.Since(start)
		statusCode := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
		}

		if len(c.Errors) > 0 {
			logger.Error("request completed with errors", append(attrs, "errors", c.Errors.String())...)
		} else if statusCode >= 500 {
			logger.Error("request completed", attrs...)
		} else if statusCode >= 400 {
			logger.Warn("request completed", attrs...)
		} else {
			logger.Info("request completed", attrs...)
		}
	}
}
