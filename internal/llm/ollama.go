package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OllamaProvider talks to a local Ollama daemon over its native chat
// API. No API key is involved, which makes it the zero-setup option
// for development.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a provider against the given Ollama host.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaPayload struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaReply struct {
	Message         ollamaMessage `json:"message"`
	Model           string        `json:"model"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	payload := ollamaPayload{
		Model:    model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, ollamaMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		payload.Options = map[string]any{}
		if req.Temperature > 0 {
			payload.Options["temperature"] = req.Temperature
		}
		if req.MaxTokens > 0 {
			payload.Options["num_predict"] = req.MaxTokens
		}
	}

	reply, err := p.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &CompletionResponse{
		Content:      reply.Message.Content,
		InputTokens:  reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
	}, nil
}

func (p *OllamaProvider) post(ctx context.Context, payload ollamaPayload) (*ollamaReply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, apiErr.Error)
	}

	var reply ollamaReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}
	return &reply, nil
}
