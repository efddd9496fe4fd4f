// Package cache puts a redis read-through in front of the product store for
// catalog-facing reads. Cache failures degrade to the database, never to an
// error for the caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/products"

	"github.com/redis/go-redis/v9"
)

const notFoundSentinel = "notfound"

type ProductCache struct {
	store *products.Conf
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(store *products.Conf, client *redis.Client) *ProductCache {
	return &ProductCache{
		store: store,
		redis: client,
		ttl:   5 * time.Minute,
	}
}

// GetProductByID serves from redis when possible, falling back to the store.
// Missing products are negatively cached for a shorter period.
func (c *ProductCache) GetProductByID(ctx context.Context, productID string) (products.Product, error) {
	key := productKey(productID)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundSentinel {
			return products.Product{}, products.ErrNotFound
		}
		var p products.Product
		if err := json.Unmarshal(data, &p); err != nil {
			slog.Warn("failed to unmarshal cached product, falling back to db", slog.String("Error", err.Error()))
			break
		}
		return p, nil
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("redis error, falling back to db", slog.String("Error", err.Error()))
	}

	p, err := c.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundSentinel, time.Minute).Err(); setErr != nil {
				slog.Warn("failed to cache notfound", slog.String("Error", setErr.Error()))
			}
		}
		return products.Product{}, err
	}

	if jsonData, err := json.Marshal(p); err == nil {
		if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache product", slog.String("Error", err.Error()))
		}
	}
	return p, nil
}

// Invalidate drops the cached row after a mutation.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if err := c.redis.Del(ctx, productKey(productID)).Err(); err != nil {
		slog.Warn("failed to invalidate product cache", slog.String("Error", err.Error()))
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
