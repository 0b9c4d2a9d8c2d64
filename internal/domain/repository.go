package domain

import (
	"context"
	"time"
)

// CatalogStore is the durable home of the food catalog.
type CatalogStore interface {
	// Load returns the full persisted catalog. A missing store yields an
	// error wrapping ErrStoreNotFound, an unreadable one ErrStoreCorrupt.
	Load(ctx context.Context) (map[string]NutrientRecord, error)
	// Merge overlays one entry on the persisted catalog, keeping all others.
	Merge(ctx context.Context, name string, record NutrientRecord) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// USDAClient defines the interface for interacting with USDA FoodData Central API
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
}
