package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sojourn/pkg/platform/circuit"
	"sojourn/pkg/platform/sentinel"
)

func TestBreakerPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stops producing once the circuit opens", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		fake := &fakeProducer{err: errors.New("broker down")}
		breaker := circuit.New("kafka", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute),
			circuit.WithClock(func() time.Time { return now }))
		p := NewBreakerPublisher(&KafkaPublisher{client: fake, topic: DefaultTopic}, breaker, logger)
		ctx := context.Background()

		require.ErrorContains(t, p.PublishEvaluation(ctx, sampleEvaluation()), "broker down")
		require.ErrorContains(t, p.PublishEvaluation(ctx, sampleEvaluation()), "broker down")
		assert.True(t, breaker.IsOpen())

		err := p.PublishEvaluation(ctx, sampleEvaluation())
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.Len(t, fake.records, 2, "open circuit must not reach the broker")

		now = now.Add(time.Minute)
		fake.err = nil
		require.NoError(t, p.PublishEvaluation(ctx, sampleEvaluation()))
		assert.False(t, breaker.IsOpen())
		assert.Len(t, fake.records, 3)
	})

	t.Run("healthy broker passes through", func(t *testing.T) {
		fake := &fakeProducer{}
		p := NewBreakerPublisher(&KafkaPublisher{client: fake, topic: DefaultTopic}, circuit.New("kafka"), logger)

		require.NoError(t, p.PublishEvaluation(context.Background(), sampleEvaluation()))
		assert.Len(t, fake.records, 1)
	})
}
