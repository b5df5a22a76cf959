package kafkaproducer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/config"
	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// messageWriter is the subset of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// rewardIssuedEvent is the JSON value published for each issued reward.
type rewardIssuedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OrderID       int64     `json:"order_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	GiftCardCode  string    `json:"gift_card_code"`
	Amount        string    `json:"amount"`
	IssuedAt      time.Time `json:"issued_at"`
}

// Producer implements secondary.NotificationSink by publishing
// reward.issued events with segmentio/kafka-go.
type Producer struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewProducer creates a Kafka producer from the application configuration.
func NewProducer(cfg *config.Config, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	logger.Info("kafka producer initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.NotificationTopic),
	)

	return newProducer(writer, cfg.NotificationTopic, logger)
}

func newProducer(writer messageWriter, topic string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: writer,
		topic:  topic,
		logger: logger.Named("kafka-producer"),
	}
}

// Name identifies the sink in logs.
func (p *Producer) Name() string {
	return "kafka"
}

// Notify publishes the notification keyed by customer id, so events for one
// customer stay ordered within a partition.
func (p *Producer) Notify(ctx context.Context, n entity.RewardNotification) error {
	value, err := json.Marshal(rewardIssuedEvent{
		EventID:       n.ID,
		EventType:     domain.RewardIssuedEventType,
		OrderID:       n.OrderID,
		CustomerID:    n.CustomerID,
		CustomerEmail: n.CustomerEmail,
		GiftCardCode:  n.Code,
		Amount:        n.Amount,
		IssuedAt:      n.IssuedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding reward event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(fmt.Sprintf("%d", n.CustomerID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(domain.RewardIssuedEventType)},
			{Key: "event_id", Value: []byte(n.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: writing message to kafka topic %q: %v", domain.ErrNotificationFailed, p.topic, err)
	}

	p.logger.Debug("reward event produced",
		zap.String("topic", p.topic),
		zap.String("event_id", n.ID),
		zap.Int("value_size", len(value)),
	)

	return nil
}

// Close shuts down the Kafka writer and releases its resources.
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
