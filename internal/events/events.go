package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCartCount     Kind = "cart.count_updated"
	KindWishlistCount Kind = "wishlist.count_updated"
	KindNotice        Kind = "notice"
	KindOrderPlaced   Kind = "order.placed"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Event struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Session string    `json:"session,omitempty"`
	Count   int       `json:"count"`
	Level   Level     `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
	OrderID string    `json:"order_id,omitempty"`
	At      time.Time `json:"at"`
}

// Notice is the user-visible part of a KindNotice event.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives state-change events. Delivery is best effort: a notifier
// never fails the operation that produced the event.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

func newEvent(kind Kind) Event {
	return Event{ID: uuid.NewString(), Kind: kind, At: time.Now().UTC()}
}

func CountUpdated(kind Kind, count int) Event {
	e := newEvent(kind)
	e.Count = count
	return e
}

func NewNotice(level Level, message string) Event {
	e := newEvent(KindNotice)
	e.Level = level
	e.Message = message
	return e
}

func OrderPlaced(orderID string) Event {
	e := newEvent(KindOrderPlaced)
	e.OrderID = orderID
	return e
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Multi fans every event out to each notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		n.Notify(ctx, e)
	}
}

type sessionNotifier struct {
	next    Notifier
	session string
}

// WithSession stamps session on events that do not carry one yet.
func WithSession(n Notifier, session string) Notifier {
	return &sessionNotifier{next: n, session: session}
}

func (s *sessionNotifier) Notify(ctx context.Context, e Event) {
	if e.Session == "" {
		e.Session = s.session
	}
	s.next.Notify(ctx, e)
}

// Buffer collects events in memory, typically for the lifetime of one request.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Notify(_ context.Context, e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Notices returns the user-visible notices in emission order.
func (b *Buffer) Notices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	notices := make([]Notice, 0, len(b.events))
	for _, e := range b.events {
		if e.Kind == KindNotice {
			notices = append(notices, Notice{Level: e.Level, Message: e.Message})
		}
	}
	return notices
}
