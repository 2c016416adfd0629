package storage

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func clearKeys(t *testing.T, client *redis.Client) {
	t.Helper()
	client.Del(context.Background(), cartKey, overrideKey, summaryKey)
}

func TestRedisStore_CartRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	clearKeys(t, client)

	ctx := context.Background()
	store := NewRedisStore(client)

	// Empty state
	cart, err := store.LoadCart(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("expected empty cart, got %+v", cart)
	}

	items := []domain.CartItem{
		{ProductID: "tshirt", Size: "M", Quantity: 2, Price: 50000, Name: "PAWS Tee"},
	}
	if err := store.SaveCart(ctx, items); err != nil {
		t.Fatalf("save cart: %v", err)
	}

	got, err := store.LoadCart(ctx)
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("expected %+v, got %+v", items, got)
	}
}

func TestRedisStore_OverridesRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	clearKeys(t, client)

	ctx := context.Background()
	store := NewRedisStore(client)

	overrides := map[string]int{"tshirt_M": 1, "hoodie_XL": 0}
	if err := store.SaveStockOverrides(ctx, overrides); err != nil {
		t.Fatalf("save overrides: %v", err)
	}

	got, err := store.LoadStockOverrides(ctx)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	if !reflect.DeepEqual(got, overrides) {
		t.Errorf("expected %+v, got %+v", overrides, got)
	}
}

func TestRedisStore_SaveOverridesDropsStaleKeys(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	clearKeys(t, client)

	ctx := context.Background()
	store := NewRedisStore(client)

	store.SaveStockOverrides(ctx, map[string]int{"a_M": 1, "b_L": 2})
	if err := store.SaveStockOverrides(ctx, map[string]int{"a_M": 0}); err != nil {
		t.Fatalf("save overrides: %v", err)
	}

	got, err := store.LoadStockOverrides(ctx)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	want := map[string]int{"a_M": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestRedisStore_SaveSummary(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	clearKeys(t, client)

	ctx := context.Background()
	store := NewRedisStore(client)

	summary := domain.CartSummary{Subtotal: 150000, ShippingCost: 15000, GrandTotal: 165000}
	if err := store.SaveSummary(ctx, summary); err != nil {
		t.Fatalf("save summary: %v", err)
	}

	if err := client.Get(ctx, summaryKey).Err(); err != nil {
		t.Errorf("expected summary key set: %v", err)
	}
}
