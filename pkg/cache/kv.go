package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

// KV is a JSON key/value layer over Redis for small side caches (the events
// feed). The partition store does not use it; partitions live in memory with
// file snapshots.
type KV struct {
	client *redis.Client
}

func NewKV(client *redis.Client) *KV {
	return &KV{client: client}
}

// Get unmarshals the stored value into dest. A missing key is ErrCacheMiss.
func (k *KV) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return appErrors.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores the value as JSON with the given TTL.
func (k *KV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return k.client.Set(ctx, key, data, ttl).Err()
}
