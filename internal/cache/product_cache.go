package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Abbrahem/GIVENTO/internal/models"
)

const listKey = "products:all"

// ProductCache keeps the unfiltered product listing in Redis. A nil
// *ProductCache is valid and disables caching, so handlers never need to
// check whether Redis is configured.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(url string, ttl time.Duration) (*ProductCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ProductCache{client: client, ttl: ttl}, nil
}

func (c *ProductCache) GetList(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("product cache read failed")
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Warn().Err(err).Msg("product cache holds malformed payload, dropping it")
		c.Invalidate(ctx)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, products []models.Product) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache write failed")
	}
}

// Invalidate drops the cached listing. Called after every product mutation.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, listKey).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
