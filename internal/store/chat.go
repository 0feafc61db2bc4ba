package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopchat/internal/db"
)

// ChatStore manages persistence of conversations and messages.
type ChatStore struct {
	db *db.DB
}

// NewChatStore creates a new chat store.
func NewChatStore(database *db.DB) *ChatStore {
	return &ChatStore{db: database}
}

// CreateConversation creates a new conversation for the given user.
func (s *ChatStore) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	c := Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	c.UpdatedAt = c.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}
	return &c, nil
}

// FindConversation retrieves a conversation by id, scoped to the given user.
// Returns nil if no such conversation exists.
func (s *ChatStore) FindConversation(ctx context.Context, id, userID string) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, status, created_at, updated_at
		 FROM conversations WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns the user's conversations, most recently
// updated first, each with its latest message as a preview.
func (s *ChatStore) ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.title, c.status, c.created_at, c.updated_at,
		        COALESCE((SELECT m.content FROM messages m
		                  WHERE m.conversation_id = c.id
		                  ORDER BY m.created_at DESC, m.id DESC LIMIT 1), '')
		 FROM conversations c
		 WHERE c.user_id = ?
		 ORDER BY c.updated_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var cs ConversationSummary
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt, &cs.LastMessage); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// UpdateConversationTitle sets the conversation title and bumps updated_at.
func (s *ChatStore) UpdateConversationTitle(ctx context.Context, id, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating conversation title: %w", err)
	}
	return nil
}

// Touch bumps the conversation's updated_at timestamp.
func (s *ChatStore) Touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes a conversation and, via cascade, its messages.
func (s *ChatStore) DeleteConversation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

// CreateMessage appends a message to a conversation.
func (s *ChatStore) CreateMessage(ctx context.Context, m Message) (*Message, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.MessageType == "" {
		m.MessageType = "text"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender, content, message_type, tokens_used, processing_time_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.Sender, m.Content, m.MessageType, m.TokensUsed, m.ProcessingTimeMs, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	return &m, nil
}

// ListMessages returns a conversation's messages in chronological order.
// A limit of 0 returns all messages.
func (s *ChatStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	q := `SELECT id, conversation_id, sender, content, message_type, tokens_used, processing_time_ms, created_at
	      FROM messages WHERE conversation_id = ?
	      ORDER BY created_at ASC, id ASC`
	args := []any{conversationID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.MessageType, &m.TokensUsed, &m.ProcessingTimeMs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMessages returns the number of messages in a conversation.
func (s *ChatStore) CountMessages(ctx context.Context, conversationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return n, nil
}
