// Package session opens the cart, wishlist and checkout managers for one
// browser session over a key-prefixed view of the shared store.
package session

import (
	"github.com/fjod/clothify/internal/cart"
	"github.com/fjod/clothify/internal/checkout"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/store"
	"github.com/fjod/clothify/internal/wishlist"
)

const keyPrefix = "session:"

type Session struct {
	ID       string
	Cart     *cart.CartService
	Wishlist *wishlist.WishlistService
	Checkout *checkout.Recorder

	// Notifier takes session events that no manager emits itself.
	Notifier events.Notifier
}

// Factory holds the process-wide dependencies shared by every session.
type Factory struct {
	Store    store.Store
	Notifier events.Notifier
	Pricing  checkout.Pricing
	IDs      *checkout.IDGenerator
}

func NewFactory(s store.Store, notifier events.Notifier) *Factory {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &Factory{
		Store:    s,
		Notifier: notifier,
		Pricing:  checkout.FlatPricing{},
		IDs:      checkout.NewIDGenerator(),
	}
}

// Open builds the managers of session id. Events go to the factory notifier and
// to each of extra, stamped with the session id.
func (f *Factory) Open(id string, extra ...events.Notifier) *Session {
	scoped := store.WithPrefix(f.Store, Prefix(id))

	notifiers := make(events.Multi, 0, len(extra)+1)
	notifiers = append(notifiers, f.Notifier)
	notifiers = append(notifiers, extra...)
	notifier := events.WithSession(notifiers, id)

	c := cart.NewCartService(scoped, notifier)
	return &Session{
		ID:       id,
		Cart:     c,
		Wishlist: wishlist.NewWishlistService(scoped, notifier),
		Checkout: checkout.NewRecorder(scoped, c, f.Pricing, f.IDs, notifier),
		Notifier: notifier,
	}
}

func Prefix(id string) string {
	return keyPrefix + id + ":"
}
