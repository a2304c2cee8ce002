package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ezlaw",
	Short: "Browse state legislation from LegiScan and ask questions about it",
	Long: `ezlaw fetches a LegiScan dataset, extracts the legal documents in it and
shows them as syntax-highlighted JSON. A chatbot backed by Gemini, OpenAI
or Ollama answers questions about the law in plain language.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
