package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/shopchat/internal/llm"
	"github.com/ziadkadry99/shopchat/internal/store"
)

// mockProvider returns a canned completion and records the last request.
type mockProvider struct {
	response *llm.CompletionResponse
	err      error
	lastReq  llm.CompletionRequest
	calls    int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.lastReq = req
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestGenerateBuildsPrompt(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{
		Content:      "Your order shipped yesterday.",
		InputTokens:  120,
		OutputTokens: 30,
		Model:        "llama3-8b-8192",
	}}
	gateway := NewGateway(provider, "llama3-8b-8192")

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "where is order 7"},
	}
	contextResult := &ContextResult{
		Kind:    KindOrderStatus,
		Order:   &store.OrderInfo{OrderID: "7", Status: "Shipped"},
		Summary: "Order 7 status: Shipped",
	}

	reply := gateway.Generate(context.Background(), history, contextResult)
	if reply.Fallback {
		t.Fatal("unexpected fallback")
	}
	if reply.Text != "Your order shipped yesterday." {
		t.Errorf("text = %q", reply.Text)
	}
	if reply.TokensUsed != 150 {
		t.Errorf("tokens = %d, want 150", reply.TokensUsed)
	}

	req := provider.lastReq
	if req.Model != "llama3-8b-8192" {
		t.Errorf("model = %q", req.Model)
	}
	if req.MaxTokens != DefaultMaxTokens || req.Temperature != DefaultTemperature {
		t.Errorf("params = (%d, %v)", req.MaxTokens, req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want system + history", len(req.Messages))
	}
	if req.Messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %s", req.Messages[0].Role)
	}
	if !strings.Contains(req.Messages[0].Content, `Database Context: {"type":"order_status"`) {
		t.Errorf("system prompt missing context: %s", req.Messages[0].Content)
	}
	if req.Messages[1].Content != "where is order 7" {
		t.Errorf("history message = %q", req.Messages[1].Content)
	}
}

func TestGatewayParamsOverride(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	gateway := NewGatewayWithParams(provider, "llama3-8b-8192", GatewayParams{
		MaxTokens:   256,
		Temperature: 0.2,
	})

	gateway.Generate(context.Background(), nil, &ContextResult{Kind: KindGeneralInfo})
	req := provider.lastReq
	if req.MaxTokens != 256 || req.Temperature != 0.2 {
		t.Errorf("params = (%d, %v)", req.MaxTokens, req.Temperature)
	}
	// Unset fields keep their defaults.
	if gateway.timeout != DefaultGenerateTimeout {
		t.Errorf("timeout = %v", gateway.timeout)
	}
}

func TestGenerateFallbackOnError(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	gateway := NewGateway(provider, "llama3-8b-8192")

	reply := gateway.Generate(context.Background(), nil, &ContextResult{Kind: KindGeneralInfo})
	if !reply.Fallback {
		t.Fatal("expected fallback reply")
	}
	if reply.Text != FallbackReply {
		t.Errorf("text = %q", reply.Text)
	}
	if reply.TokensUsed != 0 {
		t.Errorf("tokens = %d, want 0", reply.TokensUsed)
	}
}

func TestGenerateDegradedContextLine(t *testing.T) {
	provider := &mockProvider{response: &llm.CompletionResponse{Content: "ok"}}
	gateway := NewGateway(provider, "llama3-8b-8192")

	gateway.Generate(context.Background(), nil, &ContextResult{Degraded: true})

	want := "Database Context: " + DegradedSummary
	if !strings.Contains(provider.lastReq.Messages[0].Content, want) {
		t.Errorf("system prompt missing %q", want)
	}
}

func TestContextLineNil(t *testing.T) {
	if got := ContextLine(nil); got != "Database Context: "+DegradedSummary {
		t.Errorf("got %q", got)
	}
}
