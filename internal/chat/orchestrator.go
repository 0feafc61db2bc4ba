package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/shopchat/internal/store"
)

// TitleLimit is the number of message characters used for an auto-generated
// conversation title.
const TitleLimit = 50

// ConversationStore is the persistence surface the orchestrator needs.
// *store.ChatStore satisfies it.
type ConversationStore interface {
	CreateConversation(ctx context.Context, userID, title string) (*store.Conversation, error)
	FindConversation(ctx context.Context, id, userID string) (*store.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id, title string) error
	Touch(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, m store.Message) (*store.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]store.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int, error)
}

// TurnResult is what a completed turn hands back to the transport layer.
type TurnResult struct {
	ConversationID   string `json:"conversation_id"`
	Reply            string `json:"response"`
	MessageID        string `json:"message_id"`
	TokensUsed       int    `json:"tokens_used"`
	ProcessingTimeMs int64  `json:"processing_time"`
	Fallback         bool   `json:"-"`
}

// Orchestrator runs a chat turn end to end: conversation resolution, user
// message durability, classification, context aggregation, history windowing,
// generation, and assistant message persistence. It keeps no state between
// turns; every turn re-reads what it needs from the store.
type Orchestrator struct {
	conversations ConversationStore
	aggregator    *Aggregator
	history       *HistoryWindow
	gateway       *Gateway
}

// NewOrchestrator wires a turn pipeline over the given collaborators.
func NewOrchestrator(conversations ConversationStore, aggregator *Aggregator, history *HistoryWindow, gateway *Gateway) *Orchestrator {
	return &Orchestrator{
		conversations: conversations,
		aggregator:    aggregator,
		history:       history,
		gateway:       gateway,
	}
}

// TitleFor derives a conversation title from its first message.
func TitleFor(message string) string {
	runes := []rune(message)
	if len(runes) > TitleLimit {
		return string(runes[:TitleLimit]) + "..."
	}
	return message
}

// ProcessTurn runs one user message through the full pipeline. An empty
// conversationID, or one that does not resolve for this user, starts a new
// conversation. Storage failures are turn-level errors; catalog and provider
// failures degrade inside the pipeline and still produce a persisted reply.
func (o *Orchestrator) ProcessTurn(ctx context.Context, conversationID, userID, text string) (*TurnResult, error) {
	start := time.Now()

	conv, err := o.resolveConversation(ctx, conversationID, userID, text)
	if err != nil {
		return nil, err
	}

	// The turn count before this message decides whether this is the
	// conversation's first turn.
	priorMessages, err := o.conversations.CountMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}

	if _, err := o.conversations.CreateMessage(ctx, store.Message{
		ConversationID: conv.ID,
		Sender:         store.SenderUser,
		Content:        text,
		MessageType:    "text",
	}); err != nil {
		return nil, fmt.Errorf("persisting user message: %w", err)
	}

	intent, entities := Classify(text)
	contextResult := o.aggregator.Aggregate(ctx, intent, entities, text)

	history, err := o.history.Windowed(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	reply := o.gateway.Generate(ctx, history, contextResult)
	elapsed := time.Since(start).Milliseconds()

	assistantMsg, err := o.conversations.CreateMessage(ctx, store.Message{
		ConversationID:   conv.ID,
		Sender:           store.SenderAssistant,
		Content:          reply.Text,
		MessageType:      "response",
		TokensUsed:       reply.TokensUsed,
		ProcessingTimeMs: elapsed,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting assistant message: %w", err)
	}

	if priorMessages == 0 {
		if err := o.conversations.UpdateConversationTitle(ctx, conv.ID, TitleFor(text)); err != nil {
			return nil, fmt.Errorf("updating conversation title: %w", err)
		}
	} else if err := o.conversations.Touch(ctx, conv.ID); err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}

	return &TurnResult{
		ConversationID:   conv.ID,
		Reply:            reply.Text,
		MessageID:        assistantMsg.ID,
		TokensUsed:       reply.TokensUsed,
		ProcessingTimeMs: elapsed,
		Fallback:         reply.Fallback,
	}, nil
}

func (o *Orchestrator) resolveConversation(ctx context.Context, conversationID, userID, text string) (*store.Conversation, error) {
	if conversationID != "" {
		conv, err := o.conversations.FindConversation(ctx, conversationID, userID)
		if err != nil {
			return nil, fmt.Errorf("finding conversation: %w", err)
		}
		if conv != nil {
			return conv, nil
		}
	}
	conv, err := o.conversations.CreateConversation(ctx, userID, TitleFor(text))
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}
