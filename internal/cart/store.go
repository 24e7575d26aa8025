package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesalabs/mesa-backend/pkg/redis"
)

// Store persists cart state between requests. The payload is an opaque JSON
// blob; no other component reads it.
type Store interface {
	Load(ctx context.Context, cartID uuid.UUID) (*CartState, error)
	Save(ctx context.Context, cartID uuid.UUID, state CartState) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

// RedisStore keeps serialized carts in Redis under a TTL, so abandoned carts
// age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds the redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load returns the persisted state, or nil when the cart has never been
// saved or has expired.
func (s *RedisStore) Load(ctx context.Context, cartID uuid.UUID) (*CartState, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(cartID.String()))
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart %s: %w", cartID, err)
	}
	var state CartState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decoding cart %s: %w", cartID, err)
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	return &state, nil
}

// Save writes the state, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, cartID uuid.UUID, state CartState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart %s: %w", cartID, err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(cartID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart %s: %w", cartID, err)
	}
	return nil
}

// Delete drops the persisted cart.
func (s *RedisStore) Delete(ctx context.Context, cartID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.CartKey(cartID.String())); err != nil {
		return fmt.Errorf("deleting cart %s: %w", cartID, err)
	}
	return nil
}

// NoopStore discards all persistence. Used in tests and when Redis is not
// configured.
type NoopStore struct{}

// Load implements Store.
func (NoopStore) Load(context.Context, uuid.UUID) (*CartState, error) { return nil, nil }

// Save implements Store.
func (NoopStore) Save(context.Context, uuid.UUID, CartState) error { return nil }

// Delete implements Store.
func (NoopStore) Delete(context.Context, uuid.UUID) error { return nil }
