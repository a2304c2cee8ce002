package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
)

// RunWizard asks for the chat provider, dataset and credentials, saves the
// config to path and stores any API keys in .env.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ezlaw! Let's configure the law viewer.")
	fmt.Println()

	cfg := DefaultConfig()
	if existing, err := Load(path); err == nil {
		cfg = existing
	}

	// 1. Chat provider.
	providerPrompt := promptui.Select{
		Label: "Select chatbot provider",
		Items: []string{"google", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: DefaultModel(provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Dataset.
	datasetPrompt := promptui.Prompt{
		Label:    "LegiScan dataset id",
		Default:  strconv.Itoa(cfg.LegiScan.DatasetID),
		Validate: validatePositiveInt,
	}
	datasetStr, err := datasetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("dataset id: %w", err)
	}
	datasetID, _ := strconv.Atoi(strings.TrimSpace(datasetStr))

	// 4. Include patterns inside the dataset archive.
	includePrompt := promptui.Prompt{
		Label:   "Dataset files to include (comma-separated globs)",
		Default: strings.Join(cfg.LegiScan.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	cfg.Chat.Provider = provider
	cfg.Chat.Model = model
	cfg.LegiScan.DatasetID = datasetID
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.LegiScan.Include = include
	}

	// 5. Credentials go to .env, never to the YAML file.
	secrets := map[string]string{}
	for _, name := range []string{APIKeyEnvVar(provider), LegiScanAPIKeyEnv, LegiScanAccessKeyEnv} {
		if name == "" {
			continue
		}
		value, err := promptSecret(name)
		if err != nil {
			return nil, err
		}
		if value != "" {
			secrets[name] = value
		}
	}
	if provider == ProviderGoogle {
		if key := secrets["GEMINI_API_KEY"]; key != "" && !strings.HasPrefix(key, "AIza") {
			fmt.Println("Warning: Gemini API keys normally start with 'AIza'. Please verify it is correct.")
		}
	}
	if len(secrets) > 0 {
		if err := WriteDotEnv(DotEnvPath, secrets); err != nil {
			return nil, err
		}
		fmt.Printf("API keys saved to %s\n", DotEnvPath)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func promptSecret(name string) (string, error) {
	label := name
	if os.Getenv(name) != "" {
		label += " (already set, leave blank to keep)"
	}
	p := promptui.Prompt{Label: label, Mask: '*'}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(v), nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// WriteDotEnv merges values into the dotenv file at path, keeping entries
// it does not touch.
func WriteDotEnv(path string, values map[string]string) error {
	merged := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		merged = existing
	}
	for k, v := range values {
		merged[k] = v
	}
	if err := godotenv.Write(merged, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}
