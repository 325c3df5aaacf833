package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/tamarabusta/Aerolineas/internal/metrics"
	"github.com/tamarabusta/Aerolineas/internal/repository"
)

// TicketScanner is the service-side handler for boarding scans.
type TicketScanner interface {
	MarkTicketScanned(ctx context.Context, barcode string) error
}

// Consumer reads boarding-scan events and marks the matching tickets used.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler sarama.ConsumerGroupHandler
	logger  *log.Logger
}

func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	scanner TicketScanner,
	logger *log.Logger,
) (*Consumer, error) {
	if logger == nil {
		logger = log.Default()
	}

	cfg := sarama.NewConfig()

	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	// Commit by hand, only after a scan has been applied.
	cfg.Consumer.Offsets.AutoCommit.Enable = false

	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRange(),
	}
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 3 * time.Second

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: &scanGroupHandler{scanner: scanner, logger: logger},
		logger:  logger,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Printf("consumer group error: %v", err)
			metrics.IncKafkaError("consumer", "group")
		}
	}()

	for {
		err := c.group.Consume(ctx, []string{c.topic}, c.handler)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Printf("consume loop error: %v", err)
			time.Sleep(1 * time.Second)
			continue
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type scanGroupHandler struct {
	scanner TicketScanner
	logger  *log.Logger
}

func (h *scanGroupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *scanGroupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *scanGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for kafkaMsg := range claim.Messages() {
		lag := claim.HighWaterMarkOffset() - kafkaMsg.Offset - 1
		metrics.SetKafkaConsumerLag(kafkaMsg.Topic, kafkaMsg.Partition, lag)

		if err := h.processWithRetry(session.Context(), kafkaMsg); err != nil {
			metrics.IncKafkaError("consumer", "process")
			// Not marked, not committed: the message will be redelivered.
			return err
		}
		metrics.IncKafkaProcessed()

		session.MarkMessage(kafkaMsg, "")
		session.Commit()
	}
	return nil
}

// processWithRetry retries transient failures until the context is
// cancelled. Scans that can never succeed (bad payload, no active ticket
// with that barcode) are logged and skipped so they cannot wedge the
// partition.
func (h *scanGroupHandler) processWithRetry(ctx context.Context, m *sarama.ConsumerMessage) error {
	attempt := 0

	for {
		attempt++
		err := h.processOnce(ctx, m)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			h.logger.Printf(
				"skipping boarding scan topic=%s partition=%d offset=%d: %v",
				m.Topic, m.Partition, m.Offset, err,
			)
			return nil
		}

		backoff := retryBackoff(attempt)
		h.logger.Printf(
			"process boarding scan failed topic=%s partition=%d offset=%d attempt=%d err=%v; retry in %s",
			m.Topic, m.Partition, m.Offset, attempt, err, backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

var errBadScan = errors.New("malformed boarding scan")

func (h *scanGroupHandler) processOnce(ctx context.Context, m *sarama.ConsumerMessage) error {
	var scan BoardingScan
	if err := json.Unmarshal(m.Value, &scan); err != nil {
		return fmt.Errorf("%w: %v", errBadScan, err)
	}
	if scan.Barcode == "" {
		return fmt.Errorf("%w: barcode is empty", errBadScan)
	}
	if err := h.scanner.MarkTicketScanned(ctx, scan.Barcode); err != nil {
		return fmt.Errorf("mark ticket scanned: %w", err)
	}
	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, errBadScan) || errors.Is(err, repository.ErrNotFound)
}

func retryBackoff(attempt int) time.Duration {
	// linear backoff, 1..30s
	d := time.Duration(attempt) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
