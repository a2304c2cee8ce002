package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ezlaw/ezlaw/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing state lookup, JSON rendering and LegiScan tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		var laws mcpserver.LawFetcher
		if hasLegiScanKeys(cfg) {
			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			laws = newLegiScanService(cfg, database, nil)
		} else {
			fmt.Fprintln(os.Stderr, "Warning: LegiScan keys are not set; get_laws is unavailable")
		}

		fmt.Fprintf(os.Stderr, "ezlaw MCP server started on stdio (dataset=%d)\n", cfg.LegiScan.DatasetID)

		srv := mcpserver.NewServer(laws)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
