package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/kafka"
)

// EventSource is the CloudEvent source of everything this service publishes.
const EventSource = "service-shareit"

// KafkaPublisher wraps payloads in CloudEvents and writes them to one topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = TopicBookingEvents
	}
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends data as an event of the given type, keyed for partitioning.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	event, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}
	return p.producer.PublishEvent(ctx, p.topic, key, event)
}

// Topic returns the destination topic.
func (p *KafkaPublisher) Topic() string { return p.topic }

// NopPublisher drops events. Used when Kafka is disabled.
type NopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher creates a publisher that only logs at debug level.
func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

// Publish drops the event and always succeeds.
func (p *NopPublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	p.logger.Debug("event publishing disabled, dropping event",
		zap.String("event_type", eventType),
		zap.String("key", key),
	)
	return nil
}
