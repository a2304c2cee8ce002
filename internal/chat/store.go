package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ezlaw/ezlaw/internal/db"
)

// Store persists chat transcripts.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// EnsureSession creates the session if it does not exist yet. An empty id
// starts a new session with a fresh UUID.
func (s *Store) EnsureSession(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO chat_sessions (id, created_at, updated_at) VALUES (?, ?, ?)`,
		id, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AddExchange appends a user message and the assistant's answer as
// adjacent turns of the session.
func (s *Store) AddExchange(ctx context.Context, sessionID, question, answer string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	user := Message{SessionID: sessionID, Role: RoleUser, Content: question}
	if err := insertMessage(ctx, tx, &user); err != nil {
		return err
	}
	assistant := Message{SessionID: sessionID, Role: RoleAssistant, Content: answer}
	if err := insertMessage(ctx, tx, &assistant); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, assistant.CreatedAt, sessionID); err != nil {
		return fmt.Errorf("touching session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing exchange: %w", err)
	}
	return nil
}

func insertMessage(ctx context.Context, ex execer, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now().UTC()

	_, err := ex.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, seq, role, content, created_at)
		 SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?
		 FROM chat_messages WHERE session_id = ?`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt, msg.SessionID,
	)
	if err != nil {
		return fmt.Errorf("adding message: %w", err)
	}
	return nil
}

// Messages returns the whole transcript of a session, oldest first.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	return s.query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY seq ASC`,
		sessionID,
	)
}

// Recent returns the last limit messages of a session, oldest first.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx,
		`SELECT id, session_id, role, content, created_at FROM (
		     SELECT id, session_id, role, content, created_at, seq
		     FROM chat_messages WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`,
		sessionID, limit,
	)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
