// Package cache provides a small read-through cache used to shield the
// commerce backend from repeated coupon and settings fetches.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores short-lived string payloads. A miss returns "" with a nil
// error so callers can fall through to the origin.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

// Disabled is a no-op Cache used when no Redis address is configured.
type Disabled struct{}

func (Disabled) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (Disabled) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (Disabled) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s", operation, key)
}
