package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Deposit volume lives in one counter key per pool per UTC day. Buckets
// expire on their own a day after they leave the trailing window, so there is
// no cleanup job.
const (
	volumeKeyPrefix = "volume:"
	volumeBucketTTL = 8 * 24 * time.Hour
	dayFormat       = "2006-01-02"
)

// DepositVolumeStore implements usecase.DepositVolumeStore on day-bucketed
// Redis counters.
type DepositVolumeStore struct {
	client *redis.Client
}

// NewDepositVolumeStore creates a new DepositVolumeStore.
func NewDepositVolumeStore(client *redis.Client) *DepositVolumeStore {
	return &DepositVolumeStore{client: client}
}

// Record adds a deposit amount to the bucket for its UTC day.
func (s *DepositVolumeStore) Record(ctx context.Context, asset, chain string, amount decimal.Decimal, at time.Time) error {
	key := volumeKey(asset, chain, at)

	pipe := s.client.TxPipeline()
	pipe.IncrByFloat(ctx, key, amount.InexactFloat64())
	pipe.Expire(ctx, key, volumeBucketTTL)

	_, err := pipe.Exec(ctx)

	return err
}

// TrailingVolume sums the buckets of the last `days` UTC days, today
// included. Missing buckets count as zero.
func (s *DepositVolumeStore) TrailingVolume(ctx context.Context, asset, chain string, days int, now time.Time) (decimal.Decimal, error) {
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, volumeKey(asset, chain, now.AddDate(0, 0, -i)))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		bucket, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}

		total = total.Add(bucket)
	}

	return total, nil
}

func volumeKey(asset, chain string, at time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", volumeKeyPrefix, asset, chain, at.UTC().Format(dayFormat))
}
