package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// idem:order:create:{external_id} -> order id
	KeyIdemOrderCreate = "idem:order:create:%s"
)

var TTLIdempotency = 24 * time.Hour

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Ping checks the connection so startup can fall back to the database-only path.
func Ping(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}

// OrderIdempotency remembers which order a caller's external id produced.
type OrderIdempotency struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrderIdempotency(rdb *redis.Client) *OrderIdempotency {
	return &OrderIdempotency{rdb: rdb, ttl: TTLIdempotency}
}

// Lookup returns the order id stored for externalID, or "" when none is stored.
func (o *OrderIdempotency) Lookup(ctx context.Context, externalID string) (string, error) {
	id, err := o.rdb.Get(ctx, fmt.Sprintf(KeyIdemOrderCreate, externalID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get idempotency key: %w", err)
	}
	return id, nil
}

// Remember stores orderID for externalID unless a value is already present.
func (o *OrderIdempotency) Remember(ctx context.Context, externalID, orderID string) error {
	if err := o.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemOrderCreate, externalID), orderID, o.ttl).Err(); err != nil {
		return fmt.Errorf("redis set idempotency key: %w", err)
	}
	return nil
}
