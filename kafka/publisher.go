package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/mini-erp/pkg/logger"
)

var errMissingEventType = errors.New("event type is required")

// EventPublisher publishes purchase order lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event PurchaseOrderEvent) error
	Close() error
}

// Publisher sends events synchronously to TopicPurchaseOrders
type Publisher struct {
	producer sarama.SyncProducer
}

// NewPublisher connects a sync producer to brokers
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().Strs("brokers", brokers).Msg("Purchase order event publisher ready")
	return NewPublisherWithProducer(producer), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer) *Publisher {
	return &Publisher{producer: producer}
}

// Publish sends event keyed by order id so all events of one order share a
// partition and keep their order. EventID and Timestamp are filled when empty.
func (p *Publisher) Publish(ctx context.Context, event PurchaseOrderEvent) error {
	ctx, span := otel.Tracer("kafka-publisher").Start(ctx, "kafka.publish "+event.EventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicPurchaseOrders),
			attribute.Int64("purchase_order.id", int64(event.OrderID)),
		),
	)
	defer span.End()

	msg, err := p.message(ctx, &event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("event.id", event.EventID))

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to publish %s for order %d: %w", event.EventType, event.OrderID, err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	logger.Debug(ctx).
		Str("event_type", event.EventType).
		Str("event_id", event.EventID).
		Uint("purchase_order_id", event.OrderID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Purchase order event published")
	return nil
}

func (p *Publisher) message(ctx context.Context, event *PurchaseOrderEvent) (*sarama.ProducerMessage, error) {
	if event.EventType == "" {
		return nil, errMissingEventType
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]sarama.RecordHeader, 0, len(carrier)+2)
	headers = append(headers,
		sarama.RecordHeader{Key: []byte("event_type"), Value: []byte(event.EventType)},
		sarama.RecordHeader{Key: []byte("event_id"), Value: []byte(event.EventID)},
	)
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	return &sarama.ProducerMessage{
		Topic:   TopicPurchaseOrders,
		Key:     sarama.StringEncoder(fmt.Sprintf("purchase_order_%d", event.OrderID)),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}, nil
}

// Close flushes and closes the producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event PurchaseOrderEvent) error {
	logger.Debug(ctx).
		Str("event_type", event.EventType).
		Uint("purchase_order_id", event.OrderID).
		Msg("Kafka disabled, event dropped")
	return nil
}

func (NoopPublisher) Close() error { return nil }
