//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"patentdesk/internal/contract/ports"
	"patentdesk/internal/contract/publisher"
	"patentdesk/internal/platform/config"
	"patentdesk/internal/platform/kafka"
	"patentdesk/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	topic := "contract-emails-" + uuid.NewString()[:8]
	client, err := kafka.New(config.KafkaConfig{
		Brokers:    broker.Brokers,
		ClientID:   "patentdesk-test",
		EmailTopic: topic,
	})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, kafka.EnsureTopic(ctx, client, topic))

	req := ports.EmailRequest{
		ContractID: uuid.New(),
		Recipients: []string{"legal@ferko.example"},
		Subject:    "Opposition contract: FERKO",
		Body:       "body",
	}
	require.NoError(t, publisher.NewKafka(client, topic).PublishContractEmail(ctx, req))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, req.ContractID.String(), string(records[0].Key))

	var msg publisher.Message
	require.NoError(t, json.Unmarshal(records[0].Value, &msg))
	require.Equal(t, publisher.EventContractEmailRequested, msg.Type)
	require.Equal(t, req.Recipients[0], msg.Recipients[0].Address)
}
