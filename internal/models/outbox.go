package models

import (
	"encoding/json"
	"time"
)

type OutboxMessage struct {
	ID        int             `db:"id"`
	MessageID string          `db:"message_id"` // UUID, generated by the database
	Topic     string          `db:"topic"`
	Payload   json.RawMessage `db:"payload"` // stored as JSONB

	Status     string     `db:"status"` // pending, sent, failed
	RetryCount int        `db:"retry_count"`
	CreatedAt  time.Time  `db:"created_at"`
	SentAt     *time.Time `db:"sent_at"` // NULL until sent
	LastError  *string    `db:"last_error"`
}
