package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/store"
	"github.com/fjod/clothify/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Cart is the part of the cart manager checkout needs.
type Cart interface {
	Lines(ctx context.Context) ([]domain.CartLine, error)
	Clear(ctx context.Context) error
}

// Summary is what the checkout page shows before the form is submitted.
type Summary struct {
	Empty    bool              `json:"empty"`
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
	Total    float64           `json:"total"`
	Currency string            `json:"currency"`
}

// Recorder turns a valid checkout form and the current cart into an order.
type Recorder struct {
	orders   *store.Collection[domain.Order]
	cart     Cart
	pricing  Pricing
	ids      *IDGenerator
	notifier events.Notifier
	now      func() time.Time
}

func NewRecorder(s store.Store, cart Cart, pricing Pricing, ids *IDGenerator, notifier events.Notifier) *Recorder {
	if pricing == nil {
		pricing = FlatPricing{}
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &Recorder{
		orders:   store.NewCollection[domain.Order](s, store.OrdersKey),
		cart:     cart,
		pricing:  pricing,
		ids:      ids,
		notifier: notifier,
		now:      time.Now,
	}
}

func (r *Recorder) Summary(ctx context.Context) (*Summary, error) {
	items, err := r.cart.Lines(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(items)
	count := 0
	for _, item := range items {
		count += item.Qty
	}
	return &Summary{
		Empty:    len(items) == 0,
		Items:    items,
		Count:    count,
		Subtotal: toFloat(subtotal),
		Total:    toFloat(r.pricing.Total(subtotal, items)),
		Currency: domain.CurrencyQAR,
	}, nil
}

// Checkout validates form, records an order for the current cart and empties the
// cart. Nothing is written when validation fails or the cart is empty; a failed
// rule is reported as an error notice as well as a *ValidationError.
func (r *Recorder) Checkout(ctx context.Context, form *Form) (*domain.Order, error) {
	if err := form.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			r.notifier.Notify(ctx, events.NewNotice(events.LevelError, verr.Message))
		}
		return nil, err
	}

	items, err := r.cart.Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orders, err := r.orders.Load(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(items)
	order := domain.Order{
		ID:        r.ids.Next(),
		CreatedAt: r.now().UTC(),
		Customer:  form.Customer(),
		Items:     items,
		Subtotal:  toFloat(subtotal),
		Total:     toFloat(r.pricing.Total(subtotal, items)),
		Currency:  domain.CurrencyQAR,
		Status:    domain.OrderStatusPaidDemo,
	}

	if err := r.orders.Save(ctx, append(orders, order)); err != nil {
		logger.FromContext(ctx).WithError(err).Error("record order failed")
		return nil, err
	}

	// The order is already recorded; a failed clear leaves a stale cart behind.
	if err := r.cart.Clear(ctx); err != nil {
		logger.FromContext(ctx).WithFields(logrus.Fields{"order_id": order.ID}).WithError(err).Error("clear cart after checkout failed")
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total,
	}).Info("order recorded")

	r.notifier.Notify(ctx, events.OrderPlaced(order.ID))
	return &order, nil
}

func (r *Recorder) Orders(ctx context.Context) ([]domain.Order, error) {
	return r.orders.Load(ctx)
}

func (r *Recorder) Order(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}
