package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/sony/gobreaker/v2"
)

// SessionKey scopes the order table blob to one session.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return OrdersStorageKey
	}

	return fmt.Sprintf("%s:%s", OrdersStorageKey, sessionID)
}

// BlobOrderTable serializes the whole order mapping as JSON under a single key.
// Failures of the blob store or the codec surface as errs.ErrStoreUnavailable.
type BlobOrderTable struct {
	blobs BlobStore
	key   string
	ttl   time.Duration
	cb    *gobreaker.CircuitBreaker[[]byte]
}

// CreateOrderTable builds the table for one session. cb may be nil.
func CreateOrderTable(blobs BlobStore, sessionID string, ttl time.Duration, cb *gobreaker.CircuitBreaker[[]byte]) OrderTable {
	return &BlobOrderTable{
		blobs: blobs,
		key:   SessionKey(sessionID),
		ttl:   ttl,
		cb:    cb,
	}
}

func (t *BlobOrderTable) Load(ctx context.Context) (map[string]domain.Order, error) {
	raw, err := t.execute(func() ([]byte, error) {
		return t.blobs.Get(ctx, t.key)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", errs.ErrStoreUnavailable, t.key, err)
	}

	orders := make(map[string]domain.Order)
	if len(raw) == 0 {
		return orders, nil
	}

	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", errs.ErrStoreUnavailable, t.key, err)
	}

	return orders, nil
}

func (t *BlobOrderTable) Save(ctx context.Context, orders map[string]domain.Order) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", errs.ErrStoreUnavailable, t.key, err)
	}

	_, err = t.execute(func() ([]byte, error) {
		return nil, t.blobs.Set(ctx, t.key, raw, t.ttl)
	})
	if err != nil {
		return fmt.Errorf("%w: save %s: %w", errs.ErrStoreUnavailable, t.key, err)
	}

	return nil
}

func (t *BlobOrderTable) execute(fn func() ([]byte, error)) ([]byte, error) {
	if t.cb == nil {
		return fn()
	}

	return t.cb.Execute(fn)
}
