// Package loginticket stores one-time login tickets: short-lived copies of
// the login payload addressable by an opaque ticket ID, so the credential
// can be transferred to the senior's device by scanning instead of typing.
//
// Redeeming a ticket consumes it; tickets expire on their own after the TTL.
package loginticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "carelink/pkg/domain-errors"
)

const ticketKeyPrefix = "login:ticket:"

// RedisStore is the production implementation for distributed deployments
// where any instance may serve the redemption call.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed ticket store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores the encoded payload under the ticket ID with the given TTL.
func (s *RedisStore) Put(ctx context.Context, ticketID, encodedPayload string, ttl time.Duration) error {
	if err := s.client.Set(ctx, ticketKeyPrefix+ticketID, encodedPayload, ttl).Err(); err != nil {
		return fmt.Errorf("store login ticket: %w", err)
	}
	return nil
}

// Redeem returns the encoded payload and deletes the ticket atomically.
// A missing or expired ticket yields a not-found domain error.
func (s *RedisStore) Redeem(ctx context.Context, ticketID string) (string, error) {
	payload, err := s.client.GetDel(ctx, ticketKeyPrefix+ticketID).Result()
	if errors.Is(err, redis.Nil) {
		return "", dErrors.New(dErrors.CodeNotFound, "login ticket not found or expired")
	}
	if err != nil {
		return "", fmt.Errorf("redeem login ticket: %w", err)
	}
	return payload, nil
}
