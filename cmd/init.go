package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ezlaw configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that picks the chatbot provider and LegiScan dataset, writes the config file and stores API keys in .env.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
