package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/chat"
	"github.com/ezlaw/ezlaw/internal/config"
	"github.com/ezlaw/ezlaw/internal/dashboard"
	"github.com/ezlaw/ezlaw/internal/db"
	"github.com/ezlaw/ezlaw/internal/legiscan"
	"github.com/ezlaw/ezlaw/internal/llm"
	"github.com/ezlaw/ezlaw/internal/server"
	"github.com/ezlaw/ezlaw/internal/states"
)

// apiTimeout bounds every non-websocket API request.
const apiTimeout = 60 * time.Second

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ezlaw web server",
	Long:  `Starts the HTTP server with the law viewer page, the LegiScan and chatbot APIs and the state lookup websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.Server.AllowAllOrigins = serveAllowAll
		}

		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return err
		}
		if !hasLegiScanKeys(cfg) {
			fmt.Fprintf(os.Stderr, "Warning: %s and %s are not set; /api/get-laws will fail\n",
				config.LegiScanAPIKeyEnv, config.LegiScanAccessKeyEnv)
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database)

		registerAllRoutes(srv, cfg, database, llmProvider)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "ezlaw server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Dataset: %d (first %d files)\n", cfg.LegiScan.DatasetID, cfg.LegiScan.MaxFiles)
		if llmProvider != nil {
			fmt.Fprintf(os.Stderr, "  Chatbot: %s/%s\n", llmProvider.Name(), cfg.Chat.Model)
		}

		return srv.Start()
	},
}

// registerAllRoutes wires up the feature routes. Websocket routes go on
// the bare router; everything else gets the API timeout.
func registerAllRoutes(srv *server.Server, cfg *config.Config, database *db.DB, llmProvider llm.Provider) {
	r := srv.Router()
	api := srv.API(apiTimeout)

	// State lookup
	states.RegisterRoutes(r)

	// LegiScan datasets
	legiscanSvc := newLegiScanService(cfg, database, nil)
	legiscan.RegisterRoutes(api, legiscanSvc)

	// Chatbot
	chatSvc := chat.NewService(llmProvider, chat.NewStore(database), cfg.Chat)
	chat.RegisterRoutes(api, chatSvc)

	// Viewer page
	dash := dashboard.New(cfg.LegiScan.DatasetID, chatSvc.Configured())
	dash.RegisterRoutes(api)
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "HTTP server port")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}
