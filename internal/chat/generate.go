package chat

import (
	"context"
	"log"
	"time"

	"github.com/ziadkadry99/shopchat/internal/llm"
)

// Gateway wraps a completion provider with the parameters and failure
// handling for customer-facing replies. Generate never returns an error:
// provider failures degrade to a fallback reply so the turn still completes.
type Gateway struct {
	provider    llm.Provider
	model       string
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// NewGateway creates a reply gateway for the given provider and model. Rate
// limiting, when wanted, belongs on the provider itself.
func NewGateway(provider llm.Provider, model string) *Gateway {
	return &Gateway{
		provider:    provider,
		model:       model,
		timeout:     DefaultGenerateTimeout,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
}

const (
	// DefaultGenerateTimeout bounds a single provider call.
	DefaultGenerateTimeout = 30 * time.Second
	// DefaultMaxTokens caps the length of a generated reply.
	DefaultMaxTokens = 1000
	// DefaultTemperature is the sampling temperature for replies.
	DefaultTemperature = 0.7
)

// GatewayParams overrides the request parameters sent to the provider.
// Zero values fall back to the defaults above.
type GatewayParams struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// NewGatewayWithParams is NewGateway with explicit request parameters,
// used when they come from configuration.
func NewGatewayWithParams(provider llm.Provider, model string, params GatewayParams) *Gateway {
	g := NewGateway(provider, model)
	if params.Timeout > 0 {
		g.timeout = params.Timeout
	}
	if params.MaxTokens > 0 {
		g.maxTokens = params.MaxTokens
	}
	if params.Temperature > 0 {
		g.temperature = params.Temperature
	}
	return g
}

// Reply is the outcome of a generation attempt. Fallback is set when the
// provider call failed and Text holds the canned apology instead.
type Reply struct {
	Text       string
	TokensUsed int
	Model      string
	Fallback   bool
}

// Generate produces an assistant reply from the conversation history and the
// aggregated catalog context.
func (g *Gateway) Generate(ctx context.Context, history []llm.Message, contextResult *ContextResult) Reply {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: SystemPrompt(ContextLine(contextResult)),
	})
	messages = append(messages, history...)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		log.Printf("chat: completion failed: %v", err)
		return Reply{Text: FallbackReply, Model: "fallback", Fallback: true}
	}

	log.Printf("chat: reply generated, tokens=%d cost=$%.6f",
		resp.TotalTokens(), llm.EstimateCost(g.model, resp.InputTokens, resp.OutputTokens))

	return Reply{
		Text:       resp.Content,
		TokensUsed: resp.TotalTokens(),
		Model:      resp.Model,
	}
}
