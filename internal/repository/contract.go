package repository

import (
	"context"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
)

// OrdersStorageKey prefixes every session-scoped order table blob.
const OrdersStorageKey = "pos_orders_v1"

// BlobStore is a key-value store of opaque blobs with per-key expiry. Get returns
// (nil, nil) for a missing or expired key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// OrderTable is the whole order id -> order mapping of one session, read and
// written as a unit.
type OrderTable interface {
	Load(ctx context.Context) (map[string]domain.Order, error)
	Save(ctx context.Context, orders map[string]domain.Order) error
}
