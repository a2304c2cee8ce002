package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
	"github.com/ezlaw/ezlaw/internal/render"
)

var renderTitle string

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render a JSON file as syntax-highlighted HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data  []byte
			err   error
			title = renderTitle
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
			if title == "" {
				title = filepath.Base(args[0])
			}
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		v, err := jsonvalue.Parse(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		fmt.Println(render.RenderDocument(v, title))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "document header (defaults to the file name)")
	rootCmd.AddCommand(renderCmd)
}
