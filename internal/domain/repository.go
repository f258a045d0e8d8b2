package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProductSearcher defines the interface for querying one provider's
// product-search API.
type ProductSearcher interface {
	Search(ctx context.Context, store Store, query string, page, pageSize int) ([]Product, error)
}
