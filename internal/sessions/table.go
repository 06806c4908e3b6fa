package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/tableserve-backend/pkg/redis"
)

type tableKV interface {
	redis.KV
	TableKey(scopeKey string) string
}

// TableSelection remembers which table the ordering screen of a scope targets.
type TableSelection struct {
	kv  tableKV
	ttl time.Duration
}

// NewTableSelection builds a redis-backed table selection store.
func NewTableSelection(kv tableKV, ttl time.Duration) (*TableSelection, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &TableSelection{kv: kv, ttl: ttl}, nil
}

func (t *TableSelection) Select(ctx context.Context, scopeKey string, tableNumber int) error {
	if tableNumber < 1 {
		return fmt.Errorf("table number must be positive")
	}
	if err := t.kv.Set(ctx, t.kv.TableKey(scopeKey), strconv.Itoa(tableNumber), t.ttl); err != nil {
		return fmt.Errorf("select table: %w", err)
	}
	return nil
}

// Selected returns the selected table number or nil when none is selected.
func (t *TableSelection) Selected(ctx context.Context, scopeKey string) (*int, error) {
	raw, err := t.kv.Get(ctx, t.kv.TableKey(scopeKey))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table selection: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return nil, nil
	}
	return &n, nil
}

func (t *TableSelection) Reset(ctx context.Context, scopeKey string) error {
	if err := t.kv.Del(ctx, t.kv.TableKey(scopeKey)); err != nil {
		return fmt.Errorf("reset table selection: %w", err)
	}
	return nil
}
