package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/bookcatalog/metric"
)

// cacheMetrics exports per-cache Prometheus series, labeled by the cache's
// component prefix. Counters are incremented directly at the call sites in
// Bounded; size is a gauge tracking the live entry count.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

// cacheCounter builds one bookcatalog_cache_* counter tagged with the
// owning cache's component label.
func cacheCounter(prefix, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "bookcatalog",
		Subsystem:   "cache",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	})
}

// newCacheMetrics creates and registers cache metrics with the provided registry.
func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	m := &cacheMetrics{
		hits:      cacheCounter(prefix, "hits_total", "Total number of cache hits"),
		misses:    cacheCounter(prefix, "misses_total", "Total number of cache misses"),
		sets:      cacheCounter(prefix, "sets_total", "Total number of cache set operations"),
		deletes:   cacheCounter(prefix, "deletes_total", "Total number of cache delete operations"),
		evictions: cacheCounter(prefix, "evictions_total", "Total number of cache evictions"),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bookcatalog",
			Subsystem:   "cache",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of entries in cache",
		}),
	}

	counters := []struct {
		name    string
		counter prometheus.Counter
	}{
		{"cache_hits", m.hits},
		{"cache_misses", m.misses},
		{"cache_sets", m.sets},
		{"cache_deletes", m.deletes},
		{"cache_evictions", m.evictions},
	}
	for _, c := range counters {
		if err := registry.RegisterCounter(prefix, c.name, c.counter); err != nil {
			return nil, err
		}
	}
	if err := registry.RegisterGauge(prefix, "cache_size", m.size); err != nil {
		return nil, err
	}

	return m, nil
}

// updateSize sets the current cache size.
func (m *cacheMetrics) updateSize(size int) {
	m.size.Set(float64(size))
}
