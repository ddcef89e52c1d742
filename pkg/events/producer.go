package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Alexandrudiun/spaces/pkg/logger"
)

// Producer publishes booking lifecycle events. A Producer built with no
// brokers is a no-op, so the service runs fine without Kafka configured.
type Producer interface {
	PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

type noopProducer struct{}

func (noopProducer) PublishBookingEvent(context.Context, string, BookingEvent) error { return nil }
func (noopProducer) Close() error                                                    { return nil }

func NewProducer(brokers []string, topic string, log *logger.Logger) Producer {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, booking events disabled")
		return noopProducer{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	log.Info("Kafka booking event producer initialized", "brokers", brokers, "topic", topic)
	return &kafkaProducer{writer: writer, log: log}
}

func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.DeskID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.New().String())},
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderSource, Value: []byte("spaces")},
			{Key: HeaderTimestamp, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"desk_id", event.DeskID,
			"booking_id", event.BookingID,
			"error", err,
		)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
