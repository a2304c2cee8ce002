package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/viewer"
)

var chatServer string

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the ezlaw chatbot about the law",
	Long: `Sends a question to the chatbot of a running ezlaw server. Without an
argument, reads questions line by line from stdin within one session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		baseURL := cfg.BackendURL
		if chatServer != "" {
			baseURL = chatServer
		}
		ctl := viewer.New(viewer.NewClient(baseURL, &http.Client{Timeout: 2 * time.Minute}))

		ask := func(question string) error {
			answer, err := ctl.Chat(cmd.Context(), question)
			if err != nil {
				var verr *viewer.Error
				if errors.As(err, &verr) {
					_, _, msg := ctl.ChatState()
					return errors.New(msg)
				}
				return err
			}
			fmt.Println(answer)
			return nil
		}

		if len(args) > 0 {
			return ask(strings.Join(args, " "))
		}

		fmt.Fprintln(os.Stderr, "Ask a question (Ctrl-D to quit).")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(os.Stderr, "> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := ask(line); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			fmt.Println()
		}
		if verbose && ctl.SessionID() != "" {
			fmt.Fprintf(os.Stderr, "Session: %s\n", ctl.SessionID())
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "", "server URL (defaults to backend_url from the config)")
	rootCmd.AddCommand(chatCmd)
}
