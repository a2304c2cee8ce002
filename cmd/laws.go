package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/viewer"
)

var (
	lawsCopy   bool
	lawsOut    string
	lawsMarkup bool
	lawsServer string
)

var lawsCmd = &cobra.Command{
	Use:   "laws",
	Short: "Fetch laws through a running ezlaw server and show them",
	Long: `Asks a running ezlaw server for the configured LegiScan dataset and prints
the extracted documents as JSON. Use --copy to put them on the clipboard,
--out to save them to a directory or --markup to print the rendered HTML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		baseURL := cfg.BackendURL
		if lawsServer != "" {
			baseURL = lawsServer
		}

		ctl := viewer.New(viewer.NewClient(baseURL, &http.Client{Timeout: 2 * time.Minute}))
		if err := ctl.LoadLaws(cmd.Context()); err != nil {
			var verr *viewer.Error
			if errors.As(err, &verr) {
				return errors.New(ctl.Err())
			}
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", ctl.FileName())
		}

		if lawsCopy {
			if err := ctl.Copy(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
		if lawsOut != "" {
			path, err := ctl.Download(lawsOut)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved %s\n", path)
		}
		if lawsCopy || lawsOut != "" {
			return nil
		}

		if lawsMarkup {
			fmt.Println(ctl.Markup())
			return nil
		}
		pretty, err := ctl.Pretty()
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

func init() {
	lawsCmd.Flags().BoolVar(&lawsCopy, "copy", false, "copy the JSON to the clipboard")
	lawsCmd.Flags().StringVar(&lawsOut, "out", "", "directory to save the JSON file in")
	lawsCmd.Flags().BoolVar(&lawsMarkup, "markup", false, "print the rendered HTML markup instead of JSON")
	lawsCmd.Flags().StringVar(&lawsServer, "server", "", "server URL (defaults to backend_url from the config)")
	rootCmd.AddCommand(lawsCmd)
}
