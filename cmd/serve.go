package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopchat/internal/auth"
	"github.com/ziadkadry99/shopchat/internal/chat"
	"github.com/ziadkadry99/shopchat/internal/config"
	"github.com/ziadkadry99/shopchat/internal/db"
	"github.com/ziadkadry99/shopchat/internal/llm"
	"github.com/ziadkadry99/shopchat/internal/server"
	"github.com/ziadkadry99/shopchat/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the support chat server",
	Long:  `Starts the shopchat HTTP server: REST chat API, websocket chat, auth, and catalog endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = os.Getenv("SHOPCHAT_JWT_SECRET")
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("jwt_secret is not set; run `shopchat init` or set SHOPCHAT_JWT_SECRET")
		}

		// Create LLM provider.
		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		if cfg.RequestsPerMinute > 0 {
			provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
		}

		// Open database.
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Stores and pipeline.
		chats := store.NewChatStore(database)
		catalog := store.NewCatalogStore(database)
		users := store.NewUserStore(database)

		orch := chat.NewOrchestrator(chats,
			chat.NewAggregator(catalog, cfg.TopProducts, cfg.SearchLimit),
			chat.NewHistoryWindow(chats, cfg.HistoryWindow),
			chat.NewGatewayWithParams(provider, cfg.Model, chat.GatewayParams{
				Timeout:     time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
			}))

		authSvc := auth.NewService(users, cfg.JWTSecret)

		// Create and start server.
		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.CORSAllowAll,
		}, database)

		r := srv.Router()
		auth.RegisterRoutes(r, authSvc)
		chat.RegisterRoutes(r, orch, chats, authSvc)
		store.RegisterCatalogRoutes(r, catalog)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "shopchat v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", provider.Name(), cfg.Model)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
