package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopchat/internal/auth"
	"github.com/ziadkadry99/shopchat/internal/db"
	"github.com/ziadkadry99/shopchat/internal/llm"
	"github.com/ziadkadry99/shopchat/internal/store"
)

func setupRouter(t *testing.T, provider llm.Provider) (chi.Router, *store.ChatStore, string) {
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

	authSvc := auth.NewService(store.NewUserStore(database), "test-secret")
	_, token, err := authSvc.Register(context.Background(), "shopper@example.com", "password123", "Shopper")
	if err != nil {
		t.Fatalf("registering test user: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, orch, chats, authSvc)
	return r, chats, token
}

func doJSON(t *testing.T, r chi.Router, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestChatRouteRequiresAuth(t *testing.T) {
	r, _, _ := setupRouter(t, &mockProvider{response: &llm.CompletionResponse{Content: "hi"}})

	rec := doJSON(t, r, "POST", "/api/chat/", "", `{"message":"hello"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestChatRoute(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{
		Content:      "We carry 5 products.",
		InputTokens:  80,
		OutputTokens: 10,
	}}
	r, _, token := setupRouter(t, provider)

	rec := doJSON(t, r, "POST", "/api/chat/", token, `{"message":"what do you sell?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != "We carry 5 products." {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.ConversationID == "" || resp.MessageID == "" {
		t.Error("missing conversation or message id")
	}
	if resp.TokensUsed != 90 {
		t.Errorf("tokens = %d", resp.TokensUsed)
	}
	if resp.Timestamp == "" {
		t.Error("missing timestamp")
	}
}

func TestChatRouteRejectsBadMessages(t *testing.T) {
	r, _, token := setupRouter(t, &mockProvider{response: &llm.CompletionResponse{Content: "hi"}})

	cases := []string{
		`{"message":""}`,
		`{"message":"   "}`,
		`{"message":"` + strings.Repeat("x", MaxMessageLength+1) + `"}`,
		`not json`,
	}
	for _, body := range cases {
		rec := doJSON(t, r, "POST", "/api/chat/", token, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %.30q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestConversationRoutes(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "sure"}}
	r, _, token := setupRouter(t, provider)

	rec := doJSON(t, r, "POST", "/api/chat/", token, `{"message":"first question"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}
	var turn chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, r, "GET", "/api/chat/conversations", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Conversations []store.ConversationSummary `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(list.Conversations))
	}
	if list.Conversations[0].Title != "first question" {
		t.Errorf("title = %q", list.Conversations[0].Title)
	}

	rec = doJSON(t, r, "GET", "/api/chat/conversations/"+turn.ConversationID+"/messages", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("messages status = %d", rec.Code)
	}
	var msgs struct {
		ConversationID string          `json:"conversation_id"`
		Title          string          `json:"title"`
		Messages       []store.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(msgs.Messages))
	}

	rec = doJSON(t, r, "GET", "/api/chat/conversations/no-such-id/messages", token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing conversation status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, "DELETE", "/api/chat/conversations/"+turn.ConversationID, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, r, "DELETE", "/api/chat/conversations/"+turn.ConversationID, token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
