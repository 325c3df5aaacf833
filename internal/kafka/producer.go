package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

type Producer struct {
	producer sarama.SyncProducer
}

func NewSyncProducer(brokers []string) (*Producer, error) {
	cfg := sarama.NewConfig()

	// Required for SyncProducer.
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond

	prod, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create sarama sync producer: %w", err)
	}

	return &Producer{producer: prod}, nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

// SendRaw publishes an already-marshaled payload. The outbox sender uses
// the reservation code as the partition key so events for one booking stay
// ordered.
func (p *Producer) SendRaw(topic, key string, payload []byte) error {
	if topic == "" {
		return fmt.Errorf("topic is empty")
	}
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now(),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send kafka message: %w", err)
	}
	return nil
}
