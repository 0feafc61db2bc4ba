package config

// ProviderType identifies a chat completion provider.
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level shopchat configuration, corresponding to .shopchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	DBPath            string       `yaml:"db_path" koanf:"db_path"`
	Port              int          `yaml:"port" koanf:"port"`
	JWTSecret         string       `yaml:"jwt_secret" koanf:"jwt_secret"`
	HistoryWindow     int          `yaml:"history_window" koanf:"history_window"`
	TopProducts       int          `yaml:"top_products" koanf:"top_products"`
	SearchLimit       int          `yaml:"search_limit" koanf:"search_limit"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	LLMTimeoutSeconds int          `yaml:"llm_timeout_seconds" koanf:"llm_timeout_seconds"`
	MaxTokens         int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature       float64      `yaml:"temperature" koanf:"temperature"`
	CORSAllowAll      bool         `yaml:"cors_allow_all" koanf:"cors_allow_all"`
}
