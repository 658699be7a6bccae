package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/jinitha01/ecom-demo/internal/domain"
)

// RedisStore keeps session carts in Redis as JSON under cart:<sessionID>.
// All calls go through a circuit breaker so a down Redis fails fast instead
// of stalling every request behind connection timeouts.
type RedisStore struct {
	client  *redis.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	baseTTL time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "session-redis",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &RedisStore{
		client:  client,
		cb:      cb,
		baseTTL: ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := r.cb.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil // no cart yet, not a failure
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

func (r *RedisStore) Set(ctx context.Context, sessionID string, cart domain.Cart) error {
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter

	_, err = r.cb.Execute(func() ([]byte, error) {
		if err := r.client.Set(ctx, sessionKey(sessionID), string(jsonCart), ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis set failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	_, err := r.cb.Execute(func() ([]byte, error) {
		if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
			return nil, fmt.Errorf("redis delete failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
