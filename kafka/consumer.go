package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/mini-erp/pkg/logger"
)

// EventHandler reacts to one purchase order event
type EventHandler func(ctx context.Context, event PurchaseOrderEvent) error

// Consumer reads purchase order events as a member of a consumer group and
// dispatches them by event type
type Consumer struct {
	group   sarama.ConsumerGroup
	groupID string
	topics  []string

	mu       sync.RWMutex
	handlers map[string]EventHandler
}

// NewConsumer joins groupID on the given brokers
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to join consumer group %s: %w", groupID, err)
	}

	c := newConsumer(groupID, topics)
	c.group = group
	return c, nil
}

func newConsumer(groupID string, topics []string) *Consumer {
	return &Consumer{
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}
}

// RegisterHandler binds handler to eventType, replacing any previous one
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.mu.Lock()
	c.handlers[eventType] = handler
	c.mu.Unlock()
}

func (c *Consumer) handlerFor(eventType string) (EventHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[eventType]
	return h, ok
}

// Start runs the consume loop in the background until ctx is cancelled or
// the group is closed. Sarama returns from Consume on every rebalance, so the
// loop rejoins until told to stop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.group == nil {
		return errors.New("consumer group not initialized")
	}
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			err := c.group.Consume(ctx, c.topics, handler)
			switch {
			case errors.Is(err, sarama.ErrClosedConsumerGroup):
				return
			case err != nil:
				logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consume loop failed, rejoining")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consumer group error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Purchase order event consumer started")
	return nil
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	if c.group == nil {
		return nil
	}
	return c.group.Close()
}

type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.handleMessage(session.Context(), msg)
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// messageMeta is what the publisher puts in record headers
type messageMeta struct {
	eventType string
	eventID   string
	carrier   propagation.MapCarrier
}

func readHeaders(msg *sarama.ConsumerMessage) messageMeta {
	meta := messageMeta{carrier: propagation.MapCarrier{}}
	for _, header := range msg.Headers {
		if header == nil {
			continue
		}
		switch key := string(header.Key); key {
		case "event_type":
			meta.eventType = string(header.Value)
		case "event_id":
			meta.eventID = string(header.Value)
		default:
			meta.carrier[key] = string(header.Value)
		}
	}
	return meta
}

// handleMessage dispatches one record and reports whether a handler accepted
// it. Failures are logged and the offset is committed regardless, so a poison
// message never blocks the partition.
func (h *consumerGroupHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	meta := readHeaders(msg)
	ctx = otel.GetTextMapPropagator().Extract(ctx, meta.carrier)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume "+meta.eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", msg.Topic),
			attribute.Int("messaging.kafka.partition", int(msg.Partition)),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
			attribute.String("event.type", meta.eventType),
			attribute.String("event.id", meta.eventID),
		),
	)
	defer span.End()

	fail := func(err error, reason string) bool {
		if err != nil {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, reason)
		logger.Warn(ctx).Err(err).
			Str("event_type", meta.eventType).
			Str("event_id", meta.eventID).
			Int64("offset", msg.Offset).
			Msg(reason)
		return false
	}

	if meta.eventType == "" {
		return fail(nil, "Skipping record without event_type header")
	}
	handler, ok := h.consumer.handlerFor(meta.eventType)
	if !ok {
		return false
	}

	var event PurchaseOrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fail(err, "Skipping undecodable purchase order event")
	}
	span.SetAttributes(attribute.Int64("purchase_order.id", int64(event.OrderID)))

	if err := handler(ctx, event); err != nil {
		return fail(err, "Purchase order event handler failed")
	}

	span.SetStatus(codes.Ok, "")
	logger.Debug(ctx).
		Str("event_type", meta.eventType).
		Uint("purchase_order_id", event.OrderID).
		Msg("Purchase order event handled")
	return true
}
