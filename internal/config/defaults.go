package config

// defaultModels maps each provider to its default chat model.
var defaultModels = map[ProviderType]string{
	ProviderGroq:   "llama3-8b-8192",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultModel returns the default chat model for the given provider.
// Unknown providers fall back to the groq default.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGroq]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGroq,
		Model:             "llama3-8b-8192",
		DBPath:            "shopchat.db",
		Port:              8080,
		HistoryWindow:     10,
		TopProducts:       5,
		SearchLimit:       10,
		RequestsPerMinute: 30,
		LLMTimeoutSeconds: 30,
		MaxTokens:         1000,
		Temperature:       0.7,
	}
}
