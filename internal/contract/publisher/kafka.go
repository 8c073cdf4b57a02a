package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"patentdesk/internal/contract/ports"
	"patentdesk/pkg/requestcontext"
)

// producer is the subset of *kgo.Client the publisher uses.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Kafka writes one record per email request, keyed by contract id so every
// message about a contract lands on the same partition.
type Kafka struct {
	client producer
	topic  string
}

func NewKafka(client *kgo.Client, topic string) *Kafka {
	return &Kafka{client: client, topic: topic}
}

func (k *Kafka) PublishContractEmail(ctx context.Context, req ports.EmailRequest) error {
	msg := newMessage(req, requestcontext.RequestID(ctx), requestcontext.Now(ctx))
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal contract email: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(req.ContractID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(EventContractEmailRequested)},
		},
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce contract email: %w", err)
	}
	return nil
}
