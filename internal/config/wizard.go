package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .shopchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to shopchat! Let's configure your server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"groq", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: DefaultModel(cfg.Provider),
	}
	cfg.Model, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Database path.
	dbPrompt := promptui.Prompt{
		Label:   "SQLite database path",
		Default: cfg.DBPath,
	}
	cfg.DBPath, err = dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("db path: %w", err)
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// Generate a signing secret so tokens survive restarts.
	cfg.JWTSecret, err = generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generating jwt secret: %w", err)
	}

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.Provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running shopchat serve.\n", envVar)
		}
	}

	// Save to .shopchat.yml.
	configPath := ".shopchat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
