// internal/cache/metrics_cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"salespipe-service/internal/domain/customer"

	"github.com/redis/go-redis/v9"
)

const metricsKeyPrefix = "salespipe:metrics:"

// MetricsCache memoizes aggregated pipeline metrics per criteria
// fingerprint. It is purely an optimization: every miss or redis error
// falls back to recomputing from the store snapshot.
type MetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMetricsCache(client *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{client: client, ttl: ttl}
}

// Fingerprint derives a stable cache key from the filter criteria. Sort
// parameters are excluded since they do not affect aggregation.
func Fingerprint(f *customer.FilterCriteria) string {
	if f == nil {
		f = &customer.FilterCriteria{}
	}
	raw := strings.Join([]string{f.Search, f.Status, f.Priority, f.StartDate, f.EndDate, f.DateField}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

func (c *MetricsCache) Get(ctx context.Context, f *customer.FilterCriteria) (*customer.Metrics, bool) {
	data, err := c.client.Get(ctx, metricsKeyPrefix+Fingerprint(f)).Bytes()
	if err != nil {
		return nil, false
	}
	var m customer.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return &m, true
}

func (c *MetricsCache) Set(ctx context.Context, f *customer.FilterCriteria, m *customer.Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	return c.client.Set(ctx, metricsKeyPrefix+Fingerprint(f), data, c.ttl).Err()
}

// Invalidate drops every memoized snapshot. Called after any customer
// mutation (create, update, import commit).
func (c *MetricsCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, metricsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached metrics: %w", err)
		}
	}
	return iter.Err()
}
