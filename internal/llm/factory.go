package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type
// and model. Supported provider types: "groq", "openai", "ollama".
// A missing API key is a startup error, not something to retry at
// request time.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "groq":
		apiKey := os.Getenv("GROQ_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable is not set")
		}
		return NewGroqProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
