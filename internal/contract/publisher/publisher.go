// Package publisher hands contract email requests to the mail pipeline.
package publisher

import (
	"time"

	"github.com/google/uuid"

	"patentdesk/internal/contract/ports"
	"patentdesk/pkg/email"
)

// EventContractEmailRequested is the message type consumed by the mailer.
const EventContractEmailRequested = "contract.email.requested"

// Recipient is one addressee of the contract email.
type Recipient struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Message is the JSON value written to the email topic.
type Message struct {
	Type        string      `json:"type"`
	ID          uuid.UUID   `json:"id"`
	ContractID  uuid.UUID   `json:"contract_id"`
	Recipients  []Recipient `json:"recipients"`
	Subject     string      `json:"subject"`
	Body        string      `json:"body"`
	RequestID   string      `json:"request_id,omitempty"`
	RequestedAt time.Time   `json:"requested_at"`
}

func newMessage(req ports.EmailRequest, requestID string, now time.Time) Message {
	recipients := make([]Recipient, len(req.Recipients))
	for i, addr := range req.Recipients {
		recipients[i] = Recipient{Address: addr, Name: email.DisplayName(addr)}
	}
	return Message{
		Type:        EventContractEmailRequested,
		ID:          uuid.New(),
		ContractID:  req.ContractID,
		Recipients:  recipients,
		Subject:     req.Subject,
		Body:        req.Body,
		RequestID:   requestID,
		RequestedAt: now.UTC(),
	}
}
