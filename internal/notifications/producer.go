package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"boxoffice/pkg/logger"
)

// Producer publishes domain events for downstream consumers. Publishing
// is best effort from the caller's point of view: a confirmed order is
// confirmed whether or not the event got out.
type Producer interface {
	Publish(ctx context.Context, event *DomainEvent) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates a synchronous idempotent producer. Acks wait
// for all in-sync replicas; hash partitioning keys on the ticketed event
// so per-event ordering holds.
func NewKafkaProducer(brokers []string, topic string) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{producer: producer, topic: topic}, nil
}

func (kp *kafkaProducer) Publish(ctx context.Context, event *DomainEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal domain event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kp.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
			{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	logger.GetDefault().Debug("domain event published",
		"type", string(event.Type),
		"topic", kp.topic,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (kp *kafkaProducer) Close() error {
	if kp.producer == nil {
		return nil
	}
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// noopProducer is used when Kafka is disabled.
type noopProducer struct{}

func NewNoopProducer() Producer { return noopProducer{} }

func (noopProducer) Publish(ctx context.Context, event *DomainEvent) error { return nil }
func (noopProducer) Close() error                                          { return nil }
