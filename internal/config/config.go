package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = ".ezlaw.yml"

// DotEnvPath is where the wizard stores API keys.
const DotEnvPath = ".env"

// Environment variables holding LegiScan credentials.
const (
	LegiScanAPIKeyEnv    = "LEGISCAN_API_KEY"
	LegiScanAccessKeyEnv = "LEGISCAN_ACCESS_KEY"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (EZLAW_*). A double underscore separates
// nested keys: EZLAW_LEGISCAN__MAX_FILES sets legiscan.max_files.
// Variables from a .env file in the working directory are loaded first
// without overriding the real environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", DotEnvPath, err)
	}

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("EZLAW_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if v := os.Getenv(LegiScanAPIKeyEnv); v != "" {
		cfg.LegiScan.APIKey = v
	}
	if v := os.Getenv(LegiScanAccessKeyEnv); v != "" {
		cfg.LegiScan.AccessKey = v
	}

	return cfg, nil
}

// envKey maps EZLAW_CHAT__MODEL to chat.model.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "EZLAW_"))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path. Credentials
// are left out; they belong in the environment.
func (c *Config) Save(path string) error {
	out := *c
	out.LegiScan.APIKey = ""
	out.LegiScan.AccessKey = ""

	data, err := yamlv3.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized chat provider values.
var validProviders = map[ProviderType]bool{
	ProviderGoogle: true,
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.LegiScan.APIURL == "" {
		return fmt.Errorf("legiscan.api_url is required")
	}
	if c.LegiScan.DatasetID <= 0 {
		return fmt.Errorf("legiscan.dataset_id must be positive")
	}
	if c.LegiScan.MaxFiles <= 0 {
		return fmt.Errorf("legiscan.max_files must be positive")
	}
	if c.LegiScan.Timeout < 0 {
		return fmt.Errorf("legiscan.timeout must be non-negative")
	}

	if c.Chat.Provider == "" {
		return fmt.Errorf("chat.provider is required")
	}
	if !validProviders[c.Chat.Provider] {
		return fmt.Errorf("invalid chat.provider %q: must be one of google, openai, ollama", c.Chat.Provider)
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat.model is required")
	}
	if c.Chat.MaxTokens < 0 {
		return fmt.Errorf("chat.max_tokens must be non-negative")
	}
	if c.Chat.HistoryTurns < 0 {
		return fmt.Errorf("chat.history_turns must be non-negative")
	}
	if c.Chat.RequestsPerMinute < 0 {
		return fmt.Errorf("chat.requests_per_minute must be non-negative")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGoogle:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
