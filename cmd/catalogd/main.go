// Package main implements the entry point for the book catalog service.
// It wires the configuration, metrics, the in-memory store, the entity
// caches, and the bulk authorship merger into a running daemon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/bookcatalog/catalog"
	"github.com/c360/bookcatalog/config"
	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/metric"
	"github.com/c360/bookcatalog/store"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "catalogd"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	service, err := buildService(cfg, logger)
	if err != nil {
		return err
	}

	return runWithSignalHandling(service, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting book catalog service",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// loadConfig loads configuration from the specified file path, falling back
// to defaults plus environment overrides when no path is given.
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader.AddLayer(path)
	}
	return loader.Load()
}

// service bundles everything the daemon owns.
type service struct {
	logger        *slog.Logger
	metricsServer *metric.Server
	container     *catalog.Container
	users         *catalog.Accessor[*entity.User]
	books         *catalog.Accessor[*entity.Book]
	comments      *catalog.Accessor[*entity.Comment]
	merger        *catalog.Merger
}

// buildService wires the store, caches, accessors, and merger together.
func buildService(cfg *config.Config, logger *slog.Logger) (*service, error) {
	metricsRegistry := metric.NewMetricsRegistry()

	container, err := catalog.NewContainer(cfg.Cache, metricsRegistry, logger)
	if err != nil {
		return nil, fmt.Errorf("create cache container: %w", err)
	}

	mem := store.NewMemory()
	users := catalog.NewAccessor[*entity.User]("user", mem.Users(), container.Users(), logger)
	books := catalog.NewAccessor[*entity.Book]("book", mem.Books(), container.Books(), logger)
	comments := catalog.NewAccessor[*entity.Comment]("comment", mem.Comments(), container.Comments(), logger)

	merger, err := catalog.NewMerger(users, books, mem.Books(), metricsRegistry, logger)
	if err != nil {
		return nil, fmt.Errorf("create merger: %w", err)
	}

	svc := &service{
		logger:    logger,
		container: container,
		users:     users,
		books:     books,
		comments:  comments,
		merger:    merger,
	}

	if cfg.Metrics.Enabled {
		svc.metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, metricsRegistry)
	}

	return svc, nil
}

// runWithSignalHandling starts the metrics server and blocks until a
// shutdown signal arrives.
func runWithSignalHandling(svc *service, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if svc.metricsServer != nil {
		go func() {
			if err := svc.metricsServer.Start(); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
		slog.Info("Metrics server started", "address", svc.metricsServer.Address())
	}

	slog.Info("Book catalog service started")

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := shutdown(shutdownCtx, svc); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("Book catalog service shutdown complete")
	return nil
}

// shutdown stops the metrics server and drops the caches.
func shutdown(_ context.Context, svc *service) error {
	if svc.metricsServer != nil {
		if err := svc.metricsServer.Stop(); err != nil {
			slog.Error("Error stopping metrics server", "error", err)
			return err
		}
	}

	svc.container.Books().Clear()
	svc.container.Users().Clear()
	svc.container.Comments().Clear()
	return nil
}
