// Package events publishes conversation interaction events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"gifting-workers/internal/common/config"
	"gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/logger"
)

const (
	EventTypeInteractionTracked = "conversation.interaction.tracked"

	defaultWriteTimeout = 5 * time.Second
)

// InteractionEvent is the payload written for every tracked interaction.
type InteractionEvent struct {
	EventID        string    `json:"eventId"`
	EventType      string    `json:"eventType"`
	ConversationID string    `json:"conversationId"`
	InteractionID  string    `json:"interactionId"`
	CategoryName   string    `json:"categoryName"`
	Action         string    `json:"action"`
	ProductIDs     []string  `json:"productIds"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type Publisher interface {
	PublishInteraction(ctx context.Context, evt InteractionEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by conversation ID so a conversation's
// events land on one partition in order.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  logger.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic not configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           5 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	timeout := time.Duration(cfg.WriteTimeout) * time.Millisecond
	return newKafkaPublisher(w, cfg.Topic, timeout, log), nil
}

func newKafkaPublisher(w messageWriter, topic string, timeout time.Duration, log logger.Logger) *KafkaPublisher {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &KafkaPublisher{
		writer:  w,
		topic:   topic,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "events", "topic": topic}),
	}
}

func (p *KafkaPublisher) PublishInteraction(ctx context.Context, evt InteractionEvent) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.EventType == "" {
		evt.EventType = EventTypeInteractionTracked
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if evt.ProductIDs == nil {
		evt.ProductIDs = []string{}
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return errors.NewEventPublishFailedError(p.topic, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(evt.ConversationID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(evt.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("interaction event not published", map[string]interface{}{
			"eventId":        evt.EventID,
			"conversationId": evt.ConversationID,
			"error":          err,
		})
		return errors.NewEventPublishFailedError(p.topic, err)
	}

	p.logger.Debug("interaction event published", map[string]interface{}{
		"eventId":        evt.EventID,
		"conversationId": evt.ConversationID,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishInteraction(context.Context, InteractionEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// New returns a KafkaPublisher when Kafka is enabled and a NoopPublisher otherwise.
func New(cfg config.KafkaConfig, log logger.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg, log)
}
