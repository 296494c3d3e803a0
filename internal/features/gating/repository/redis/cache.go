package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/repository"
	platformredis "community-forum-backend/internal/platform/redis"
)

// preVerificationCache stores pre-verification entries as JSON blobs with
// a redis TTL matching their expiry, so the hot path never serves an
// entry past its expiration even if the consumer forgets to check.
type preVerificationCache struct {
	client platformredis.Client
}

func NewPreVerificationCache(client platformredis.Client) repository.PreVerificationCache {
	return &preVerificationCache{client: client}
}

func key(userID, lockID string) string {
	return fmt.Sprintf("preverify:%s:%s", userID, lockID)
}

func (c *preVerificationCache) Get(ctx context.Context, userID, lockID string) (*models.PreVerification, bool, error) {
	data, err := c.client.Get(ctx, key(userID, lockID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var pv models.PreVerification
	if err := json.Unmarshal(data, &pv); err != nil {
		return nil, false, err
	}
	return &pv, true, nil
}

func (c *preVerificationCache) Put(ctx context.Context, pv *models.PreVerification, ttl time.Duration) error {
	data, err := json.Marshal(pv)
	if err != nil {
		return fmt.Errorf("failed to marshal pre-verification: %w", err)
	}
	return c.client.Set(ctx, key(pv.UserID, pv.LockID), data, ttl).Err()
}

func (c *preVerificationCache) Invalidate(ctx context.Context, userID, lockID string) error {
	return c.client.Del(ctx, key(userID, lockID)).Err()
}

func (c *preVerificationCache) InvalidateLock(ctx context.Context, lockID string) error {
	pattern := fmt.Sprintf("preverify:*:%s", lockID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}
