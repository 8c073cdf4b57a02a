package chatlog

import "time"

// Message is one raw chat_logs row.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session summarizes the messages of one chat session.
type Session struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	FirstAt      time.Time `json:"first_at"`
	LastAt       time.Time `json:"last_at"`
}

// Entry is a message prepared for display. Date is set when the raw content
// carried a [today=...] marker.
type Entry struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Date      string    `json:"date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is a session's messages in order.
type Transcript struct {
	SessionID string  `json:"session_id"`
	Entries   []Entry `json:"entries"`
}

// NewEntry cleans a raw message for display.
func NewEntry(m Message) Entry {
	e := Entry{
		ID:        m.ID,
		Role:      m.Role,
		Content:   CleanContent(m.Content),
		CreatedAt: m.CreatedAt,
	}
	if d, ok := ExtractDate(m.Content); ok {
		e.Date = d
	}
	return e
}
