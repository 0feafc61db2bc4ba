package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// DefaultGroqModel is the fast, inexpensive model used when none is configured.
const DefaultGroqModel = "llama3-8b-8192"

// NewGroqProvider creates a provider for the Groq API, which is
// OpenAI-compatible and reuses the OpenAI client with a different base URL.
func NewGroqProvider(apiKey string, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	if model == "" {
		model = DefaultGroqModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "groq",
	}
}
