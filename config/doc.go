// Package config provides configuration management for the book catalog
// service.
//
// This package handles loading and validation of application configuration
// from JSON files and environment variables.
//
// # Core Components
//
// Config: Main configuration structure containing logging settings, the
// metrics endpoint, and per-kind cache capacities.
//
// Loader: Loads configuration with layer merging (base + overrides) and
// environment variable overrides for flexible deployment scenarios.
//
// # Basic Usage
//
// Loading configuration from files with layer merging:
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.json")
//	loader.AddLayer("config/production.json") // Overrides base
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Environment variables with the BOOKCATALOG_ prefix override file values,
// e.g. BOOKCATALOG_LOG_LEVEL=debug or BOOKCATALOG_CACHE_BOOK_CAPACITY=100.
package config
