package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	linkKeyPrefix = "magiclink:pending:"
	usedKeyPrefix = "magiclink:used:"
)

// RedisStore keeps pending links in Redis so redemption works across service
// instances. Keys carry the link TTL, so expiry needs no janitor.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, link Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}

	ttl := time.Until(link.ExpiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to store
	}

	if err := s.client.Set(ctx, linkKeyPrefix+link.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) (Link, error) {
	// GETDEL makes retrieval and invalidation a single atomic step; of two
	// concurrent redemptions only one sees the value.
	data, err := s.client.GetDel(ctx, linkKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s.classifyMiss(ctx, token)
		}
		return Link{}, fmt.Errorf("failed to consume link: %w", err)
	}

	var link Link
	if err := json.Unmarshal(data, &link); err != nil {
		return Link{}, fmt.Errorf("failed to decode link: %w", err)
	}

	// Tombstone so a replayed token reports "already used" rather than
	// "unknown" until the original expiry.
	if ttl := time.Until(link.ExpiresAt); ttl > 0 {
		if err := s.client.Set(ctx, usedKeyPrefix+token, "1", ttl).Err(); err != nil {
			return Link{}, fmt.Errorf("failed to mark link used: %w", err)
		}
	}

	return link, nil
}

func (s *RedisStore) classifyMiss(ctx context.Context, token string) (Link, error) {
	n, err := s.client.Exists(ctx, usedKeyPrefix+token).Result()
	if err != nil {
		return Link{}, fmt.Errorf("failed to check used marker: %w", err)
	}
	if n > 0 {
		return Link{}, ErrLinkAlreadyUsed
	}
	return Link{}, ErrLinkInvalid
}

var _ Store = (*RedisStore)(nil)
