package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"orderId"`
	OrderRef    string    `json:"orderRef"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher emits order lifecycle events for downstream consumers
// (fulfilment, analytics). The HTTP flow never blocks on it.
type Publisher interface {
	PublishOrderEvent(evt OrderEvent) error
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Kafka producer: %w", err)
	}

	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("Kafka producer connected")
	return &KafkaPublisher{producer: producer, topic: topic}, nil
}

func (p *KafkaPublisher) PublishOrderEvent(evt OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.OrderRef),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.Error().Err(err).Str("type", evt.Type).Uint("orderId", evt.OrderID).Msg("failed to publish order event")
		return err
	}
	log.Debug().Str("type", evt.Type).Int32("partition", partition).Int64("offset", offset).Msg("order event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
