package wishlist

import (
	"context"
	"fmt"

	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/store"
	"github.com/fjod/clothify/pkg/logger"
)

// WishlistService keeps at most one entry per product id.
type WishlistService struct {
	entries  *store.Collection[domain.WishlistEntry]
	notifier events.Notifier
}

func NewWishlistService(s store.Store, notifier events.Notifier) *WishlistService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &WishlistService{
		entries:  store.NewCollection[domain.WishlistEntry](s, store.WishlistKey),
		notifier: notifier,
	}
}

func (s *WishlistService) Items(ctx context.Context) ([]domain.WishlistEntry, error) {
	return s.entries.Load(ctx)
}

func (s *WishlistService) Count(ctx context.Context) (int, error) {
	entries, err := s.entries.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *WishlistService) Has(ctx context.Context, id string) (bool, error) {
	entries, err := s.entries.Load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(entries, id) >= 0, nil
}

// Add saves a snapshot of product. It reports false, and changes nothing, when
// the product is already saved.
func (s *WishlistService) Add(ctx context.Context, product domain.Product) (bool, error) {
	entries, err := s.entries.Load(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(entries, product.ID) >= 0 {
		return false, nil
	}

	entries = append(entries, domain.NewWishlistEntry(product))
	if err := s.entries.Save(ctx, entries); err != nil {
		logger.FromContext(ctx).WithError(err).Error("wishlist add failed")
		return false, err
	}

	s.notifier.Notify(ctx, events.CountUpdated(events.KindWishlistCount, len(entries)))
	s.notifier.Notify(ctx, events.NewNotice(events.LevelSuccess, fmt.Sprintf("%s added to wishlist!", product.Name)))
	return true, nil
}

func (s *WishlistService) Remove(ctx context.Context, id string) error {
	entries, err := s.entries.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.WishlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if err := s.entries.Save(ctx, kept); err != nil {
		logger.FromContext(ctx).WithError(err).Error("wishlist remove failed")
		return err
	}

	s.notifier.Notify(ctx, events.CountUpdated(events.KindWishlistCount, len(kept)))
	s.notifier.Notify(ctx, events.NewNotice(events.LevelInfo, "Item removed from wishlist"))
	return nil
}

// Toggle removes product when it is saved and saves it otherwise. It returns
// whether the product is saved afterwards.
func (s *WishlistService) Toggle(ctx context.Context, product domain.Product) (bool, error) {
	saved, err := s.Has(ctx, product.ID)
	if err != nil {
		return false, err
	}
	if saved {
		return false, s.Remove(ctx, product.ID)
	}
	if _, err := s.Add(ctx, product); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(entries []domain.WishlistEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
