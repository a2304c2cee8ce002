package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezlaw/ezlaw/internal/config"
	"github.com/ezlaw/ezlaw/internal/db"
	"github.com/ezlaw/ezlaw/internal/legiscan"
	"github.com/ezlaw/ezlaw/internal/llm"
	"github.com/ezlaw/ezlaw/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ezlaw init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDatabase opens the SQLite database under the configured data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "ezlaw.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// createLLMProviderFromConfig creates the chat provider. A missing API key
// is not fatal: the chatbot is reported as not configured instead.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.FromConfig(cfg.Chat)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		fmt.Fprintf(os.Stderr, "Warning: %v; the chatbot is disabled\n", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return provider, nil
}

// newLegiScanService wires the LegiScan client to the fetch log. database
// may be nil.
func newLegiScanService(cfg *config.Config, database *db.DB, reporter progress.Reporter) *legiscan.Service {
	client := legiscan.NewClient(cfg.LegiScan)
	if reporter != nil {
		client = client.WithReporter(reporter)
	}
	var store *legiscan.Store
	if database != nil {
		store = legiscan.NewStore(database)
	}
	return legiscan.NewService(client, store)
}

// hasLegiScanKeys reports whether both LegiScan credentials are present.
func hasLegiScanKeys(cfg *config.Config) bool {
	return cfg.LegiScan.APIKey != "" && cfg.LegiScan.AccessKey != ""
}
