package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/metric"
)

func TestCacheConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  CacheConfig
		wantErr bool
	}{
		{
			name:   "default config",
			config: DefaultCacheConfig(),
		},
		{
			name:   "custom capacities",
			config: CacheConfig{BookCapacity: 100, UserCapacity: 50, CommentCapacity: 200},
		},
		{
			name:    "zero book capacity",
			config:  CacheConfig{BookCapacity: 0, UserCapacity: 3, CommentCapacity: 3},
			wantErr: true,
		},
		{
			name:    "negative user capacity",
			config:  CacheConfig{BookCapacity: 3, UserCapacity: -1, CommentCapacity: 3},
			wantErr: true,
		},
		{
			name:    "zero comment capacity",
			config:  CacheConfig{BookCapacity: 3, UserCapacity: 3, CommentCapacity: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalid(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	_, err := NewContainer(CacheConfig{}, nil, testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestContainerCachesAreIndependent(t *testing.T) {
	cfg := CacheConfig{BookCapacity: 2, UserCapacity: 3, CommentCapacity: 4}
	container, err := NewContainer(cfg, nil, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, container.Books().Capacity())
	assert.Equal(t, 3, container.Users().Capacity())
	assert.Equal(t, 4, container.Comments().Capacity())

	// Filling one cache past its capacity must not disturb the others.
	for i := int64(1); i <= 5; i++ {
		container.Books().Put(i, &entity.Book{ID: i})
	}
	container.Users().Put(1, &entity.User{ID: 1})
	container.Comments().Put(1, &entity.Comment{ID: 1})

	assert.Equal(t, 2, container.Books().Size())
	assert.Equal(t, 1, container.Users().Size())
	assert.Equal(t, 1, container.Comments().Size())

	_, exists := container.Users().Get(1)
	assert.True(t, exists)
}

func TestNewContainerRegistersPerKindMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	_, err := NewContainer(DefaultCacheConfig(), registry, testLogger())
	require.NoError(t, err)

	// Each kind registers under its own component label, so a second
	// container on the same registry collides.
	_, err = NewContainer(DefaultCacheConfig(), registry, testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}
