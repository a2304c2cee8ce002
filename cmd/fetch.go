package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/progress"
)

var fetchNoLog bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the LegiScan dataset directly and print the extracted laws",
	Long:  `Calls the LegiScan getDataset API without a server, extracts the first JSON documents from the archive and prints the result as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reporter := progress.NewReporter("Extracting laws")
		if fetchNoLog {
			svc := newLegiScanService(cfg, nil, reporter)
			return printDataset(svc.GetLaws(cmd.Context()))
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		svc := newLegiScanService(cfg, database, reporter)
		return printDataset(svc.GetLaws(cmd.Context()))
	},
}

func printDataset(res any, err error) error {
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchNoLog, "no-log", false, "do not record the fetch in the local database")
	rootCmd.AddCommand(fetchCmd)
}
