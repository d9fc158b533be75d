package store

import (
	"context"
	"errors"
)

// Keys of the three collections kept per session.
const (
	CartKey     = "clothify_cart"
	WishlistKey = "clothify_wishlist"
	OrdersKey   = "clothify_orders"
)

var ErrNotFound = errors.New("key not found")

// Store is the persistent state store: string keys mapping to opaque values.
// Implementations must be safe for concurrent use. Writes are last-write-wins.
type Store interface {
	// Get returns ErrNotFound when the key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type prefixed struct {
	parent Store
	prefix string
}

// WithPrefix scopes every key of s under prefix. Closing the returned store is a
// no-op; the parent owns the underlying connection.
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{parent: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.parent.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.parent.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.parent.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Close() error {
	return nil
}
