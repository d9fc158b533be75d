package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection is a JSON array of T stored under a single key. Load returns a fresh
// snapshot on every call; callers modify the snapshot and hand it back to Save.
type Collection[T any] struct {
	store Store
	key   string
}

func NewCollection[T any](s Store, key string) *Collection[T] {
	return &Collection[T]{store: s, key: key}
}

// Load reads the collection. An absent key is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal %s failed: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
