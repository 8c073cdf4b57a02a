package chatlog

import (
	"context"
	"database/sql"
	"fmt"
)

// Store reads chat logs. Sessions are returned newest first; messages of a
// session oldest first.
type Store interface {
	Sessions(ctx context.Context, limit int) ([]Session, error)
	Messages(ctx context.Context, sessionID string) ([]Message, error)
}

// PostgresStore reads the chat_logs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Sessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, count(*), min(created_at), max(created_at)
		FROM chat_logs
		GROUP BY session_id
		ORDER BY max(created_at) DESC, session_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.SessionID, &sess.MessageCount, &sess.FirstAt, &sess.LastAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_logs
		WHERE session_id = $1
		ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}
	return out, nil
}

// Append inserts a message and returns its id. Used for seeding and tests;
// production rows are written by the external chat bot.
func (s *PostgresStore) Append(ctx context.Context, m Message) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_logs (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		m.SessionID, m.Role, m.Content, m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert chat message: %w", err)
	}
	return id, nil
}
