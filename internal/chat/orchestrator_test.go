package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/shopchat/internal/db"
	"github.com/ziadkadry99/shopchat/internal/llm"
	"github.com/ziadkadry99/shopchat/internal/store"
)

func setupOrchestrator(t *testing.T, provider llm.Provider) (*Orchestrator, *store.ChatStore) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	chats := store.NewChatStore(database)
	catalog := &fakeCatalog{stats: &store.Stats{TotalProducts: 5, TotalOrders: 2, AvailableStock: 9}}
	orch := NewOrchestrator(chats,
		NewAggregator(catalog, 5, 10),
		NewHistoryWindow(chats, DefaultHistoryWindow),
		NewGateway(provider, "llama3-8b-8192"))
	return orch, chats
}

func TestProcessTurnHappyPath(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{
		Content:      "We stock 5 products right now.",
		InputTokens:  100,
		OutputTokens: 20,
	}}
	orch, chats := setupOrchestrator(t, provider)
	ctx := context.Background()

	result, err := orch.ProcessTurn(ctx, "", "user_1", "hello, what do you sell?")
	if err != nil {
		t.Fatal(err)
	}
	if result.ConversationID == "" {
		t.Fatal("no conversation id")
	}
	if result.Reply != "We stock 5 products right now." {
		t.Errorf("reply = %q", result.Reply)
	}
	if result.TokensUsed != 120 {
		t.Errorf("tokens = %d", result.TokensUsed)
	}
	if result.MessageID == "" {
		t.Error("no message id")
	}

	messages, err := chats.ListMessages(ctx, result.ConversationID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(messages))
	}
	if messages[0].Sender != store.SenderUser || messages[0].Content != "hello, what do you sell?" {
		t.Errorf("user message = %+v", messages[0])
	}
	if messages[1].Sender != store.SenderAssistant || messages[1].MessageType != "response" {
		t.Errorf("assistant message = %+v", messages[1])
	}
	if messages[1].TokensUsed != 120 {
		t.Errorf("assistant tokens = %d", messages[1].TokensUsed)
	}

	conv, err := chats.FindConversation(ctx, result.ConversationID, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if conv.Title != "hello, what do you sell?" {
		t.Errorf("title = %q", conv.Title)
	}
}

func TestProcessTurnContinuesConversation(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	orch, chats := setupOrchestrator(t, provider)
	ctx := context.Background()

	first, err := orch.ProcessTurn(ctx, "", "user_1", "first message")
	if err != nil {
		t.Fatal(err)
	}
	second, err := orch.ProcessTurn(ctx, first.ConversationID, "user_1", "second message")
	if err != nil {
		t.Fatal(err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatal("turn started a new conversation")
	}

	n, err := chats.CountMessages(ctx, first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("got %d messages, want 4", n)
	}

	// The title stays at the first message.
	conv, err := chats.FindConversation(ctx, first.ConversationID, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if conv.Title != "first message" {
		t.Errorf("title = %q", conv.Title)
	}
}

func TestProcessTurnUnknownConversationCreatesNew(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	orch, _ := setupOrchestrator(t, provider)

	result, err := orch.ProcessTurn(context.Background(), "no-such-id", "user_1", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if result.ConversationID == "no-such-id" {
		t.Error("expected a fresh conversation id")
	}
}

func TestProcessTurnDoesNotCrossUsers(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	orch, chats := setupOrchestrator(t, provider)
	ctx := context.Background()

	first, err := orch.ProcessTurn(ctx, "", "user_1", "my private question")
	if err != nil {
		t.Fatal(err)
	}

	// Another user naming the same conversation id gets their own conversation.
	other, err := orch.ProcessTurn(ctx, first.ConversationID, "user_2", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if other.ConversationID == first.ConversationID {
		t.Fatal("conversation leaked across users")
	}

	n, err := chats.CountMessages(ctx, first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("original conversation has %d messages, want 2", n)
	}
}

func TestProcessTurnPersistsFallbackReply(t *testing.T) {
	provider := &mockProvider{err: errors.New("upstream down")}
	orch, chats := setupOrchestrator(t, provider)
	ctx := context.Background()

	result, err := orch.ProcessTurn(ctx, "", "user_1", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Fallback {
		t.Fatal("expected a fallback turn")
	}
	if result.Reply != FallbackReply {
		t.Errorf("reply = %q", result.Reply)
	}

	messages, err := chats.ListMessages(ctx, result.ConversationID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want the fallback persisted too", len(messages))
	}
	if messages[1].Content != FallbackReply || messages[1].TokensUsed != 0 {
		t.Errorf("assistant message = %+v", messages[1])
	}
}

func TestProcessTurnLongTitleTruncated(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	orch, chats := setupOrchestrator(t, provider)
	ctx := context.Background()

	long := strings.Repeat("a", 80)
	result, err := orch.ProcessTurn(ctx, "", "user_1", long)
	if err != nil {
		t.Fatal(err)
	}

	conv, err := chats.FindConversation(ctx, result.ConversationID, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Repeat("a", 50) + "..."
	if conv.Title != want {
		t.Errorf("title = %q, want %q", conv.Title, want)
	}
}

func TestTitleFor(t *testing.T) {
	if got := TitleFor("short"); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := TitleFor(strings.Repeat("x", 50)); got != strings.Repeat("x", 50) {
		t.Errorf("exact-limit title changed: %q", got)
	}
	if got := TitleFor(strings.Repeat("x", 51)); got != strings.Repeat("x", 50)+"..." {
		t.Errorf("got %q", got)
	}
}
