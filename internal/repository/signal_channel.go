package repository

import (
	"context"

	"LRRBrain/internal/domain/models"
	domrepo "LRRBrain/internal/domain/repository"
	pkgkafka "LRRBrain/pkg/kafka"
)

// KafkaSignalChannel pushes outbound decisions to the execution counterpart
// over one Kafka topic. The symbol keys the messages so one consumer group
// sees them in order.
type KafkaSignalChannel struct {
	producer *pkgkafka.Producer
	topic    string
	key      []byte
}

// SignalChannelOption configures the channel.
type SignalChannelOption func(*KafkaSignalChannel)

func WithSignalTopic(topic string) SignalChannelOption {
	return func(c *KafkaSignalChannel) { c.topic = topic }
}

// NewKafkaSignalChannel creates the outbound channel keyed by symbol.
func NewKafkaSignalChannel(producer *pkgkafka.Producer, symbol string, opts ...SignalChannelOption) domrepo.SignalChannel {
	c := &KafkaSignalChannel{
		producer: producer,
		topic:    "lrr.signals",
		key:      []byte(symbol),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *KafkaSignalChannel) SendOrder(ctx context.Context, m *models.OrderMessage) error {
	return c.producer.Publish(ctx, c.topic, c.key, m)
}

func (c *KafkaSignalChannel) SendHold(ctx context.Context, m *models.HoldMessage) error {
	return c.producer.Publish(ctx, c.topic, c.key, m)
}

func (c *KafkaSignalChannel) SendNewsBlock(ctx context.Context, m *models.NewsBlockMessage) error {
	return c.producer.Publish(ctx, c.topic, c.key, m)
}

func (c *KafkaSignalChannel) Close() error {
	return c.producer.Close()
}
