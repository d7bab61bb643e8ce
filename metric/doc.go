// Package metric provides Prometheus metrics infrastructure for the catalog
// service.
//
// # Overview
//
// The package wraps a private prometheus.Registry with a MetricsRegistry that
// namespaces metrics by component, rejects duplicate registrations with
// classified errors, and supports clean unregistration for component
// shutdown. Go runtime and process collectors are registered automatically.
//
// A lightweight HTTP Server exposes the registry at /metrics (OpenMetrics
// enabled) together with a /health endpoint.
//
// # Usage
//
//	registry := metric.NewMetricsRegistry()
//
//	hits := prometheus.NewCounter(prometheus.CounterOpts{
//		Namespace: "bookcatalog",
//		Subsystem: "cache",
//		Name:      "hits_total",
//	})
//	if err := registry.RegisterCounter("book_cache", "cache_hits", hits); err != nil {
//		return err
//	}
//
//	server := metric.NewServer(9090, "/metrics", registry)
//	go func() {
//		if err := server.Start(); err != nil {
//			slog.Error("metrics server stopped", "error", err)
//		}
//	}()
//	defer server.Stop()
//
// Registration errors are classified: a duplicate registration is Invalid
// (caller bug, do not retry), while a failure inside Prometheus itself is
// Fatal.
package metric
