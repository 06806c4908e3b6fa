package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/tableserve-backend/pkg/redis"
	"github.com/google/uuid"
)

// Store persists carts by scope. Implementations hold the line list opaquely.
type Store interface {
	Load(ctx context.Context, scope Scope) (Cart, error)
	Save(ctx context.Context, cart Cart) error
	Delete(ctx context.Context, scope Scope) error
}

type cartKV interface {
	redis.KV
	CartKey(scopeKey string) string
}

type storedCart struct {
	DraftID uuid.UUID `json:"draft_id"`
	Lines   []Line    `json:"lines"`
}

// RedisStore keeps each cart's lines as a JSON document under its scope key.
type RedisStore struct {
	kv  cartKV
	ttl time.Duration
}

// NewRedisStore builds a Store on top of the redis client.
func NewRedisStore(kv cartKV, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{kv: kv, ttl: ttl}, nil
}

// Load returns the stored cart or an empty one when the scope has none.
func (s *RedisStore) Load(ctx context.Context, scope Scope) (Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(scope.Key()))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return New(scope), nil
		}
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var stored storedCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	out := New(scope)
	if stored.DraftID != uuid.Nil {
		out.DraftID = stored.DraftID
	}
	if stored.Lines != nil {
		out.Lines = stored.Lines
	}
	return out, nil
}

// Save writes the cart, removing the key entirely once the cart is empty.
func (s *RedisStore) Save(ctx context.Context, cart Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, cart.Scope)
	}
	raw, err := json.Marshal(storedCart{DraftID: cart.DraftID, Lines: cart.Lines})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(cart.Scope.Key()), string(raw), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, scope Scope) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(scope.Key())); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
