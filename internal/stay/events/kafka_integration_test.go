//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"sojourn/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := kgo.NewClient(kgo.SeedBrokers(rp.Brokers...))
	require.NoError(t, err)
	defer client.Close()

	admin := kadm.NewClient(client)
	require.NoError(t, EnsureTopic(ctx, admin, DefaultTopic, 1, 1))
	require.NoError(t, EnsureTopic(ctx, admin, DefaultTopic, 1, 1), "second call is a no-op")

	e := sampleEvaluation()
	require.NoError(t, NewKafkaPublisher(client, "").PublishEvaluation(ctx, e))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(DefaultTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var got Evaluation
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, e.TravelerID, got.TravelerID)
	assert.Equal(t, e.WarningLevel, got.WarningLevel)
}
