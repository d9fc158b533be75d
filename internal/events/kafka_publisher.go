package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fjod/clothify/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "storefront-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards events to a Kafka topic keyed by session, so the events
// of one session stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.L().WithError(err).WithField("messages", len(messages)).Warn("failed to publish events")
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Notify(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("failed to marshal event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(e.Session),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Kind)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("event_id", e.ID).Warn("failed to publish event")
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
