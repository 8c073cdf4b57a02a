package publisher

import (
	"context"
	"slices"
	"sync"

	"patentdesk/internal/contract/ports"
	"patentdesk/pkg/requestcontext"
)

// InMemory records messages instead of sending them. It backs the server
// when no Kafka brokers are configured.
type InMemory struct {
	mu       sync.Mutex
	messages []Message
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (p *InMemory) PublishContractEmail(ctx context.Context, req ports.EmailRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := newMessage(req, requestcontext.RequestID(ctx), requestcontext.Now(ctx))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

// Messages returns a copy of everything published so far.
func (p *InMemory) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}
