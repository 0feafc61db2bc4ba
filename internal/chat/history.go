package chat

import (
	"context"

	"github.com/ziadkadry99/shopchat/internal/llm"
	"github.com/ziadkadry99/shopchat/internal/store"
)

// DefaultHistoryWindow is the number of recent messages included in the
// generation prompt.
const DefaultHistoryWindow = 10

// HistoryReader is the slice of the chat store the history window needs.
type HistoryReader interface {
	ListMessages(ctx context.Context, conversationID string, limit int) ([]store.Message, error)
}

// HistoryWindow projects a conversation's persisted messages into the
// bounded, oldest-first slice used for prompt construction. It keeps no
// state of its own; every read re-derives the window from the store.
type HistoryWindow struct {
	messages HistoryReader
	size     int
}

// NewHistoryWindow creates a window of the given size over the message store.
func NewHistoryWindow(messages HistoryReader, size int) *HistoryWindow {
	if size <= 0 {
		size = DefaultHistoryWindow
	}
	return &HistoryWindow{messages: messages, size: size}
}

// Windowed returns at most size messages, the most recent ones, in
// chronological order.
func (h *HistoryWindow) Windowed(ctx context.Context, conversationID string) ([]llm.Message, error) {
	all, err := h.messages.ListMessages(ctx, conversationID, 0)
	if err != nil {
		return nil, err
	}

	if len(all) > h.size {
		all = all[len(all)-h.size:]
	}

	out := make([]llm.Message, 0, len(all))
	for _, m := range all {
		role := llm.RoleUser
		if m.Sender == store.SenderAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out, nil
}
