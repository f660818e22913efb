package cache

import (
	"context"
	"fmt"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/redis/go-redis/v9"
)

const defaultSequencePrefix = "mfg:mo_seq:"

// RedisNumberSequence hands out order sequence values with INCR, one key per period.
// Redis must be persistent for values to survive restarts without reuse.
type RedisNumberSequence struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisNumberSequence creates a RedisNumberSequence
func NewRedisNumberSequence(client *redis.Client, keyPrefix string) *RedisNumberSequence {
	if keyPrefix == "" {
		keyPrefix = defaultSequencePrefix
	}
	return &RedisNumberSequence{client: client, keyPrefix: keyPrefix}
}

// Next increments and returns the counter of period
func (s *RedisNumberSequence) Next(ctx context.Context, period string) (int64, error) {
	v, err := s.client.Incr(ctx, s.keyPrefix+period).Result()
	if err != nil {
		return 0, fmt.Errorf("order sequence for period %s: %w", period, err)
	}
	return v, nil
}

// Seed raises the counter of period to at least floor, for moving from the
// database sequence to Redis without reusing numbers
func (s *RedisNumberSequence) Seed(ctx context.Context, period string, floor int64) error {
	key := s.keyPrefix + period
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur >= floor {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, floor, 0)
			return nil
		})
		return err
	}, key)
}

var _ manufacturing.NumberSequence = (*RedisNumberSequence)(nil)
