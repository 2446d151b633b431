package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/FieldMesh/noisemap/internal/api"
	"github.com/FieldMesh/noisemap/internal/config"
	"github.com/FieldMesh/noisemap/internal/db"
	"github.com/FieldMesh/noisemap/internal/noisemap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Debug("Configuration loaded", "server_port", cfg.Server.Port, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)

	// Setup logging
	setupLogging(cfg.Logging)

	// Initialize database
	database, err := initializeDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database, "file://./internal/db/migrations"); err != nil {
		log.Fatal("Failed to run database migrations", "error", err)
	}
	log.Info("Database migrations completed")

	// Initialize map manager
	mapManager := noisemap.NewManager(database, cfg.Render)
	log.Debug("Map manager initialized", "default_width", cfg.Render.Width, "default_height", cfg.Render.Height)

	// Start background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startBackgroundServices(ctx, mapManager, cfg.Render.Retention)

	// Initialize API handlers
	handler := api.NewHandler(mapManager)
	router := api.SetupRoutes(handler)
	log.Debug("API routes configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Starting noisemap API server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutting down server...", "signal", sig.String())

	// Create context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

func setupLogging(cfg config.LoggingConfig) {
	// Set log level
	switch cfg.Level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warn("Invalid log level, using info", "level", cfg.Level)
		log.SetLevel(log.InfoLevel)
	}

	// Configure output format
	if cfg.Format == "pretty" || !cfg.Structured {
		log.SetReportCaller(true)
		log.SetReportTimestamp(true)
	}

	// Add service info context
	log.SetPrefix("[noisemap-api] ")
}

func initializeDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	log.Debug("Opening database connection", "path", cfg.Path)
	database, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	database.SetMaxOpenConns(cfg.MaxOpenConns)
	database.SetMaxIdleConns(cfg.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Test connection
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database initialized", "path", cfg.Path)
	return database, nil
}

func startBackgroundServices(ctx context.Context, mapManager *noisemap.Manager, retention time.Duration) {
	// Stored map pruning ticker (every hour)
	log.Debug("Starting map pruning ticker", "interval", "1h", "retention", retention)
	pruneTicker := time.NewTicker(time.Hour)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Background services stopped")
			return

		case <-pruneTicker.C:
			start := time.Now()
			if err := mapManager.PruneMaps(ctx, retention); err != nil {
				log.Error("Failed to prune stored maps", "error", err, "duration", time.Since(start))
			} else {
				log.Debug("Stored map pruning completed", "duration", time.Since(start))
			}
		}
	}
}
