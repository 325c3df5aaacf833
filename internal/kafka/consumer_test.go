package kafka

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamarabusta/Aerolineas/internal/repository"
)

type fakeScanner struct {
	calls []string
	err   error
}

func (f *fakeScanner) MarkTicketScanned(_ context.Context, barcode string) error {
	f.calls = append(f.calls, barcode)
	return f.err
}

func scanMessage(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Topic:     "boarding_scans",
		Partition: 0,
		Offset:    1,
		Value:     []byte(value),
	}
}

func newTestHandler(scanner *fakeScanner) *scanGroupHandler {
	return &scanGroupHandler{scanner: scanner, logger: log.Default()}
}

func TestProcessOnce_MarksTicket(t *testing.T) {
	scanner := &fakeScanner{}
	h := newTestHandler(scanner)

	err := h.processOnce(context.Background(), scanMessage(`{"barcode":"AB12CD"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"AB12CD"}, scanner.calls)
}

func TestProcessOnce_BadPayloadIsPermanent(t *testing.T) {
	h := newTestHandler(&fakeScanner{})

	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{oops"},
		{"empty barcode", `{"barcode":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.processOnce(context.Background(), scanMessage(tt.value))
			require.Error(t, err)
			assert.True(t, isPermanent(err))
		})
	}
}

func TestProcessWithRetry_SkipsPermanentFailures(t *testing.T) {
	scanner := &fakeScanner{err: repository.ErrNotFound}
	h := newTestHandler(scanner)

	// an unknown barcode must not wedge the partition
	err := h.processWithRetry(context.Background(), scanMessage(`{"barcode":"ZZZZZZ"}`))
	require.NoError(t, err)
	assert.Len(t, scanner.calls, 1)
}

func TestProcessWithRetry_TransientFailureStopsOnCancel(t *testing.T) {
	scanner := &fakeScanner{err: fmt.Errorf("db connection refused")}
	h := newTestHandler(scanner)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := h.processWithRetry(ctx, scanMessage(`{"barcode":"AB12CD"}`))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// fakeConsumerGroup stands in for a healthy sarama group: Consume holds
// the session open until the context is cancelled.
type fakeConsumerGroup struct {
	errs chan error
}

func (g *fakeConsumerGroup) Consume(ctx context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (g *fakeConsumerGroup) Errors() <-chan error { return g.errs }
func (g *fakeConsumerGroup) Close() error         { close(g.errs); return nil }

func (g *fakeConsumerGroup) Pause(map[string][]int32)  {}
func (g *fakeConsumerGroup) Resume(map[string][]int32) {}
func (g *fakeConsumerGroup) PauseAll()                 {}
func (g *fakeConsumerGroup) ResumeAll()                {}

// Start owns the calling goroutine for the lifetime of the context;
// wiring code must launch it with go. This pins that contract.
func TestStart_BlocksUntilCancelled(t *testing.T) {
	c := &Consumer{
		group:   &fakeConsumerGroup{errs: make(chan error)},
		topic:   "boarding_scans",
		handler: newTestHandler(&fakeScanner{}),
		logger:  log.Default(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("Start returned before cancellation: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestRetryBackoff_Capped(t *testing.T) {
	assert.Equal(t, 1*time.Second, retryBackoff(1))
	assert.Equal(t, 5*time.Second, retryBackoff(5))
	assert.Equal(t, 30*time.Second, retryBackoff(30))
	assert.Equal(t, 30*time.Second, retryBackoff(100))
}
