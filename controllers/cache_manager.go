package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"product-catalog/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:v:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
)

// CacheManager caches query pages and product details in Redis. Keys embed a
// version number; bumping the version invalidates every entry at once.
// A nil client disables caching.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   DefaultCacheTTL,
	}
}

// Enabled reports whether a Redis client is configured.
func (cm *CacheManager) Enabled() bool {
	return cm != nil && cm.redis != nil
}

// GetProductList retrieves a cached query page. It also returns the cache
// version it looked under; callers pass that version to SetProductListAsync
// so a page read before a mutation can never be stored under a newer version.
// A zero version means the cache is unavailable.
func (cm *CacheManager) GetProductList(ctx context.Context, filters models.ProductFilters, pagination models.Pagination) (*models.PaginatedResponse, int64, bool) {
	if !cm.Enabled() {
		return nil, 0, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return nil, 0, false
	}

	cachedData, err := cm.redis.Get(ctx, generateListCacheKey(version, filters, pagination)).Result()
	if err != nil {
		return nil, version, false
	}

	var response models.PaginatedResponse
	if err := json.Unmarshal([]byte(cachedData), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, version, false
	}
	return &response, version, true
}

// SetProductListAsync caches a query page under version asynchronously
func (cm *CacheManager) SetProductListAsync(version int64, filters models.ProductFilters, pagination models.Pagination, response models.PaginatedResponse) {
	if !cm.Enabled() || version == 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		jsonBytes, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		cacheKey := generateListCacheKey(version, filters, pagination)
		if err := cm.redis.Set(bgCtx, cacheKey, jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product, returning the version looked under
// the same way GetProductList does.
func (cm *CacheManager) GetProduct(ctx context.Context, productID string) (*models.Product, int64, bool) {
	if !cm.Enabled() {
		return nil, 0, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return nil, 0, false
	}
	cached, err := cm.redis.Get(ctx, generateProductCacheKey(version, productID)).Result()
	if err != nil {
		return nil, version, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		zap.L().Warn("Failed to unmarshal cached product", zap.Error(err), zap.String("product_id", productID))
		return nil, version, false
	}
	return &product, version, true
}

// SetProductAsync caches a single product under version asynchronously
func (cm *CacheManager) SetProductAsync(version int64, productID string, product *models.Product) {
	if !cm.Enabled() || version == 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}

		if err := cm.redis.Set(bgCtx, generateProductCacheKey(version, productID), productJSON, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// Invalidate invalidates all list and detail caches by bumping the version
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if !cm.Enabled() {
		return nil
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	zap.L().Info("Cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// InvalidateProduct is called after productID changed. The version bump is
// done before returning, so a read issued right after a mutation never sees
// the old record, and writes still carrying the old version become
// unreachable.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, productID string) {
	if err := cm.Invalidate(ctx); err != nil {
		zap.L().Error("Failed to invalidate product cache", zap.Error(err), zap.String("product_id", productID))
	}
}

// getCacheVersion retrieves the current cache version with retry logic
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				continue
			}
		}

		if i < maxRetries-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

// generateListCacheKey creates a unique cache key for a query page
func generateListCacheKey(version int64, filters models.ProductFilters, pagination models.Pagination) string {
	category := ""
	if filters.Category != nil {
		category = string(*filters.Category)
	}
	var min, max *float64
	if filters.PriceRange != nil {
		min, max = filters.PriceRange.Min, filters.PriceRange.Max
	}
	return fmt.Sprintf(
		"%s%d:p:%d:l:%d:q:%s:c:%s:min:%s:max:%s",
		ProductListCachePrefix,
		version,
		pagination.Page,
		pagination.Limit,
		url.QueryEscape(strings.ToLower(filters.SearchTerm)),
		category,
		formatFloatForCache(min),
		formatFloatForCache(max),
	)
}

// generateProductCacheKey creates the cache key for one product
func generateProductCacheKey(version int64, productID string) string {
	return fmt.Sprintf("%s%d:%s", ProductCachePrefix, version, productID)
}

func formatFloatForCache(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
