package cache

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/bookcatalog/metric"
)

func TestCacheMetricsIntegration(t *testing.T) {
	// Create metrics registry
	metricsRegistry := metric.NewMetricsRegistry()

	// Create cache with metrics enabled
	c, err := NewBounded[string, string](10, WithMetrics[string, string](metricsRegistry, "test_cache"))
	require.NoError(t, err)

	// Perform cache operations
	c.Put("key1", "value1")
	c.Put("key2", "value2")

	// Access key1 (hit)
	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	// Access non-existent key (miss)
	_, found = c.Get("key3")
	assert.False(t, found)

	// Delete a key
	deleted := c.Remove("key2")
	assert.True(t, deleted)

	// Gather metrics from registry
	metricFamilies, err := metricsRegistry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	metricsByName := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		metricsByName[*mf.Name] = mf
	}

	hitsMetric := metricsByName["bookcatalog_cache_hits_total"]
	require.NotNil(t, hitsMetric, "hits metric should exist")
	assert.Equal(t, float64(1), *hitsMetric.Metric[0].Counter.Value, "should have 1 hit")

	missesMetric := metricsByName["bookcatalog_cache_misses_total"]
	require.NotNil(t, missesMetric, "misses metric should exist")
	assert.Equal(t, float64(1), *missesMetric.Metric[0].Counter.Value, "should have 1 miss")

	setsMetric := metricsByName["bookcatalog_cache_sets_total"]
	require.NotNil(t, setsMetric, "sets metric should exist")
	assert.Equal(t, float64(2), *setsMetric.Metric[0].Counter.Value, "should have 2 sets")

	deletesMetric := metricsByName["bookcatalog_cache_deletes_total"]
	require.NotNil(t, deletesMetric, "deletes metric should exist")
	assert.Equal(t, float64(1), *deletesMetric.Metric[0].Counter.Value, "should have 1 delete")

	sizeMetric := metricsByName["bookcatalog_cache_size"]
	require.NotNil(t, sizeMetric, "size metric should exist")
	assert.Equal(t, float64(1), *sizeMetric.Metric[0].Gauge.Value, "should have 1 entry remaining")

	// Check component label
	assert.Equal(t, "test_cache", *hitsMetric.Metric[0].Label[0].Value, "should have correct component label")
}

func TestCacheWithoutMetrics(t *testing.T) {
	// Create cache without metrics registry
	c, err := NewBounded[string, string](10)
	require.NoError(t, err)

	// Operations work without errors even though no metrics are configured
	c.Put("key1", "value1")
	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)
	assert.Nil(t, c.metrics)
	assert.NotNil(t, c.stats, "stats are always enabled")
}
