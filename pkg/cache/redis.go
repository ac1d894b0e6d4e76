package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
)

// MetricsCacheInterface caches the rendered metrics summary per website.
type MetricsCacheInterface interface {
	GetSummary(ctx context.Context, websiteID string) ([]byte, error)
	SetSummary(ctx context.Context, websiteID string, data []byte, ttl time.Duration) error
	InvalidateSummary(ctx context.Context, websiteID string) error
}

// Cache backs both the authority lookups and the metrics summaries with a
// single Redis client.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) GetMetrics(ctx context.Context, domain string) (*providers.DomainMetrics, error) {
	key := "authority:" + domain
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m providers.DomainMetrics
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Cache) SetMetrics(ctx context.Context, domain string, m *providers.DomainMetrics, ttl time.Duration) error {
	key := "authority:" + domain
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) GetSummary(ctx context.Context, websiteID string) ([]byte, error) {
	val, err := c.client.Get(ctx, "metrics:"+websiteID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *Cache) SetSummary(ctx context.Context, websiteID string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, "metrics:"+websiteID, data, ttl).Err()
}

func (c *Cache) InvalidateSummary(ctx context.Context, websiteID string) error {
	return c.client.Del(ctx, "metrics:"+websiteID).Err()
}
