package config

import "time"

// DefaultSystemPrompt frames the chatbot as a plain-language legal explainer.
const DefaultSystemPrompt = `You are EZLaw, an assistant that explains state legislation in plain language.
Answer questions about bills, statutes and the legislative process clearly and concisely.
When you are unsure, say so. You do not give legal advice; suggest consulting a licensed attorney for specific situations.`

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGoogle: "gemini-2.0-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultModel returns the default chat model for provider, falling back to
// the Google default.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGoogle]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    ".ezlaw",
		BackendURL: "http://127.0.0.1:3000",
		Server: ServerConfig{
			Port:            3000,
			AllowAllOrigins: false,
		},
		LegiScan: LegiScanConfig{
			APIURL:    "https://api.legiscan.com/",
			DatasetID: 2183,
			MaxFiles:  5,
			Include:   []string{"**/*.json"},
			Timeout:   30 * time.Second,
		},
		Chat: ChatConfig{
			Provider:          ProviderGoogle,
			Model:             DefaultModel(ProviderGoogle),
			SystemPrompt:      DefaultSystemPrompt,
			MaxTokens:         1024,
			Temperature:       0.3,
			HistoryTurns:      10,
			RequestsPerMinute: 30,
		},
	}
}
