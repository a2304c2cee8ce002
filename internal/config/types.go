package config

import "time"

// ProviderType identifies the LLM provider behind the chatbot.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level ezlaw configuration, corresponding to .ezlaw.yml.
type Config struct {
	DataDir    string         `yaml:"data_dir" koanf:"data_dir"`
	BackendURL string         `yaml:"backend_url" koanf:"backend_url"`
	Server     ServerConfig   `yaml:"server" koanf:"server"`
	LegiScan   LegiScanConfig `yaml:"legiscan" koanf:"legiscan"`
	Chat       ChatConfig     `yaml:"chat" koanf:"chat"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// LegiScanConfig describes the dataset fetched by /api/get-laws. Keys are
// normally supplied through LEGISCAN_API_KEY and LEGISCAN_ACCESS_KEY rather
// than the file.
type LegiScanConfig struct {
	APIURL    string        `yaml:"api_url" koanf:"api_url"`
	APIKey    string        `yaml:"api_key,omitempty" koanf:"api_key"`
	AccessKey string        `yaml:"access_key,omitempty" koanf:"access_key"`
	DatasetID int           `yaml:"dataset_id" koanf:"dataset_id"`
	MaxFiles  int           `yaml:"max_files" koanf:"max_files"`
	Include   []string      `yaml:"include" koanf:"include"`
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ChatConfig controls the chatbot.
type ChatConfig struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	SystemPrompt      string       `yaml:"system_prompt" koanf:"system_prompt"`
	MaxTokens         int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature       float64      `yaml:"temperature" koanf:"temperature"`
	HistoryTurns      int          `yaml:"history_turns" koanf:"history_turns"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}
