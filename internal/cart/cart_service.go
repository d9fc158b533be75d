package cart

import (
	"context"
	"fmt"
	"math"

	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/store"
	"github.com/fjod/clothify/pkg/logger"
)

// CartService manages the cart lines of one storage scope. Every operation is a
// read-modify-write of the whole collection; concurrent writers in the same
// scope are last-write-wins.
type CartService struct {
	lines    *store.Collection[domain.CartLine]
	notifier events.Notifier
}

func NewCartService(s store.Store, notifier events.Notifier) *CartService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &CartService{
		lines:    store.NewCollection[domain.CartLine](s, store.CartKey),
		notifier: notifier,
	}
}

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = math.MaxInt32

// CoerceQuantity turns arbitrary input into a positive whole quantity: NaN,
// infinities and anything below one become 1, fractions are floored.
func CoerceQuantity(qty float64) int {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 1 {
		return 1
	}
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return int(math.Floor(qty))
}

// shiftQuantity adds delta to qty, saturating into [1, MaxQuantity].
func shiftQuantity(qty, delta int) int {
	if delta > 0 && qty > MaxQuantity-delta {
		return MaxQuantity
	}
	return min(MaxQuantity, max(1, qty+delta))
}

func (s *CartService) Lines(ctx context.Context) ([]domain.CartLine, error) {
	return s.lines.Load(ctx)
}

// Count is the total number of units in the cart.
func (s *CartService) Count(ctx context.Context) (int, error) {
	lines, err := s.lines.Load(ctx)
	if err != nil {
		return 0, err
	}
	return countUnits(lines), nil
}

func (s *CartService) Subtotal(ctx context.Context) (float64, error) {
	lines, err := s.lines.Load(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum, nil
}

// Add puts qty units of product in the given size into the cart, merging with an
// existing line for the same (product, size).
func (s *CartService) Add(ctx context.Context, product domain.Product, size string, qty float64) ([]domain.CartLine, error) {
	lines, err := s.lines.Load(ctx)
	if err != nil {
		return nil, err
	}

	addQty := CoerceQuantity(qty)
	merged := false
	for i := range lines {
		if lines[i].Matches(product.ID, size) {
			lines[i].Qty = shiftQuantity(lines[i].Qty, addQty)
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, domain.CartLine{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Image: product.Image,
			Size:  size,
			Qty:   addQty,
		})
	}

	if err := s.save(ctx, lines); err != nil {
		logger.FromContext(ctx).WithError(err).Error("cart add item failed")
		return nil, err
	}

	s.notifyCount(ctx, lines)
	s.notifier.Notify(ctx, events.NewNotice(events.LevelSuccess, fmt.Sprintf("%s x%d added to cart!", product.Name, addQty)))
	return lines, nil
}

// Update shifts the quantity of the matching line by delta, never below 1 and
// never above MaxQuantity.
// A missing line leaves the cart unchanged.
func (s *CartService) Update(ctx context.Context, id, size string, delta int) ([]domain.CartLine, error) {
	lines, err := s.lines.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].Matches(id, size) {
			lines[i].Qty = shiftQuantity(lines[i].Qty, delta)
		}
	}

	if err := s.save(ctx, lines); err != nil {
		logger.FromContext(ctx).WithError(err).Error("cart update quantity failed")
		return nil, err
	}

	s.notifyCount(ctx, lines)
	return lines, nil
}

// Remove drops the matching line if there is one.
func (s *CartService) Remove(ctx context.Context, id, size string) ([]domain.CartLine, error) {
	lines, err := s.lines.Load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if !l.Matches(id, size) {
			kept = append(kept, l)
		}
	}

	if err := s.save(ctx, kept); err != nil {
		logger.FromContext(ctx).WithError(err).Error("cart remove item failed")
		return nil, err
	}

	s.notifyCount(ctx, kept)
	s.notifier.Notify(ctx, events.NewNotice(events.LevelInfo, "Item removed from cart"))
	return kept, nil
}

func (s *CartService) Clear(ctx context.Context) error {
	if err := s.save(ctx, []domain.CartLine{}); err != nil {
		logger.FromContext(ctx).WithError(err).Error("cart clear failed")
		return err
	}

	s.notifyCount(ctx, nil)
	return nil
}

func (s *CartService) save(ctx context.Context, lines []domain.CartLine) error {
	return s.lines.Save(ctx, lines)
}

func (s *CartService) notifyCount(ctx context.Context, lines []domain.CartLine) {
	s.notifier.Notify(ctx, events.CountUpdated(events.KindCartCount, countUnits(lines)))
}

func countUnits(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Qty
	}
	return n
}
