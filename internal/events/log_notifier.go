package events

import (
	"context"

	"github.com/fjod/clothify/pkg/logger"
	"github.com/sirupsen/logrus"
)

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, e Event) {
	entry := logger.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":   e.ID,
		"event_kind": e.Kind,
		"session_id": e.Session,
	})

	switch e.Kind {
	case KindNotice:
		entry.WithField("level", e.Level).Debug(e.Message)
	case KindOrderPlaced:
		entry.WithField("order_id", e.OrderID).Info("order placed")
	default:
		entry.WithField("count", e.Count).Debug("count updated")
	}
}
