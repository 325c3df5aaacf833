package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tamarabusta/Aerolineas/internal/kafka"
	"github.com/tamarabusta/Aerolineas/internal/metrics"
	"github.com/tamarabusta/Aerolineas/internal/models"
	"github.com/tamarabusta/Aerolineas/internal/repository"
)

// OutboxSender drains pending outbox rows into Kafka in the background,
// so reservation events always reflect a committed booking.
type OutboxSender struct {
	repo          *repository.OutboxRepository
	producer      *kafka.Producer
	pollInterval  time.Duration
	batchSize     int
	retentionDays int
	maxRetries    int
	logger        *log.Logger

	cleanupEvery time.Duration
}

func NewOutboxSender(
	repo *repository.OutboxRepository,
	producer *kafka.Producer,
	pollInterval time.Duration,
	batchSize int,
	retentionDays int,
	maxRetries int,
	logger *log.Logger,
) *OutboxSender {
	if maxRetries <= 0 {
		maxRetries = 10
	}
	if logger == nil {
		logger = log.Default()
	}
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if retentionDays < 0 {
		retentionDays = 0
	}

	return &OutboxSender{
		repo:          repo,
		producer:      producer,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		retentionDays: retentionDays,
		maxRetries:    maxRetries,
		logger:        logger,
		// cleanup runs much less often than the send loop
		cleanupEvery: 1 * time.Hour,
	}
}

// Start launches the background send loop.
func (s *OutboxSender) Start(ctx context.Context) {
	go func() {
		s.logger.Println("outbox sender started")
		defer s.logger.Println("outbox sender stopped")

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		cleanupTicker := time.NewTicker(s.cleanupEvery)
		defer cleanupTicker.Stop()

		s.flushOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.flushOnce(ctx)
			case <-cleanupTicker.C:
				s.cleanupOnce(ctx)
			}
		}
	}()
}

func (s *OutboxSender) flushOnce(ctx context.Context) {
	msgs, err := s.repo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.logger.Printf("outbox get pending failed: %v", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	for _, m := range msgs {
		if err := s.sendOne(m); err != nil {
			// retry_count goes up and the error is stored; the repo flips
			// the row to failed once the limit is exceeded
			if err2 := s.repo.MarkAsFailed(ctx, m.MessageID, err.Error()); err2 != nil {
				s.logger.Printf("outbox mark failed error: %v", err2)
			}
			if m.RetryCount+1 >= s.maxRetries {
				metrics.IncOutboxFailed()
			}
			continue
		}
		if err := s.repo.MarkAsSent(ctx, m.MessageID); err != nil {
			s.logger.Printf("outbox mark sent failed: %v", err)
		}
	}
}

func (s *OutboxSender) sendOne(m *models.OutboxMessage) error {
	if m == nil {
		return fmt.Errorf("outbox message is nil")
	}
	if m.Topic == "" {
		return fmt.Errorf("outbox topic is empty")
	}
	if len(m.Payload) == 0 {
		return fmt.Errorf("outbox payload is empty")
	}

	// how long the event sat in the outbox before this attempt
	metrics.ObserveOutboxLagSeconds(time.Since(m.CreatedAt).Seconds())

	start := time.Now()

	// The reservation code partitions the topic, keeping all events for
	// one booking in order.
	key, err := extractReservationCode(m.Payload)
	if err != nil {
		metrics.IncKafkaError("producer", "prepare")
		metrics.ObserveOutboxProcessing(time.Since(start))
		return fmt.Errorf("extract reservation code: %w", err)
	}

	if err := s.producer.SendRaw(m.Topic, key, m.Payload); err != nil {
		metrics.IncKafkaError("producer", "send")
		metrics.IncOutboxRetry()
		metrics.ObserveOutboxProcessing(time.Since(start))

		return fmt.Errorf("kafka send failed: %w", err)
	}

	metrics.IncKafkaSent()
	metrics.IncOutboxSent()
	metrics.ObserveOutboxProcessing(time.Since(start))

	return nil
}

func (s *OutboxSender) cleanupOnce(ctx context.Context) {
	if s.retentionDays <= 0 {
		return
	}
	n, err := s.repo.CleanupOldMessages(ctx, s.retentionDays)
	if err != nil {
		s.logger.Printf("outbox cleanup failed: %v", err)
		return
	}
	if n > 0 {
		s.logger.Printf("outbox cleanup: deleted %d messages", n)
	}
}

func extractReservationCode(payload []byte) (string, error) {
	var x struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(payload, &x); err != nil {
		return "", err
	}
	if x.Code == "" {
		return "", fmt.Errorf("code is empty in payload")
	}
	return x.Code, nil
}
