package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

const (
	cartKey     = "paws:cart"
	overrideKey = "paws:stock_override"
	summaryKey  = "paws:cart_summary"
)

// RedisStore keeps the ledger in Redis: the override map as a hash, cart
// and summary as JSON strings. Used by kiosk deployments where the
// ledger should outlive the device.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) LoadCart(ctx context.Context) ([]domain.CartItem, error) {
	data, err := r.client.Get(ctx, cartKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (r *RedisStore) SaveCart(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.client.Set(ctx, cartKey, data, 0).Err()
}

func (r *RedisStore) LoadStockOverrides(ctx context.Context) (map[string]int, error) {
	fields, err := r.client.HGetAll(ctx, overrideKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get stock overrides: %w", err)
	}

	overrides := make(map[string]int, len(fields))
	for key, raw := range fields {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("decode stock override %q: %w", key, err)
		}
		overrides[key] = v
	}
	return overrides, nil
}

func (r *RedisStore) SaveStockOverrides(ctx context.Context, overrides map[string]int) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, overrideKey)
	if len(overrides) > 0 {
		fields := make(map[string]interface{}, len(overrides))
		for key, v := range overrides {
			fields[key] = v
		}
		pipe.HSet(ctx, overrideKey, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save stock overrides: %w", err)
	}
	return nil
}

func (r *RedisStore) SaveSummary(ctx context.Context, summary domain.CartSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return r.client.Set(ctx, summaryKey, data, 0).Err()
}
