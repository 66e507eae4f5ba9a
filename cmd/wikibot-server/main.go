package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wikibot/internal/bootstrap"
	"github.com/at-ishikawa/wikibot/internal/config"
	"github.com/at-ishikawa/wikibot/internal/inference"
	"github.com/at-ishikawa/wikibot/internal/inference/ollama"
	"github.com/at-ishikawa/wikibot/internal/inference/openai"
	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/at-ishikawa/wikibot/internal/server"
	"github.com/at-ishikawa/wikibot/internal/wikipedia"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "wikibot-server",
		Short:         "Wikibot chat web UI and JSON API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	client, err := newInferenceClient(cfg)
	if err != nil {
		return err
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return client.Close()
	})

	wikiClient := wikipedia.NewClient(cfg.Wikipedia.BaseURL, cfg.Wikipedia.Sentences)
	app.AddShutdownHook(func(ctx context.Context) error {
		return wikiClient.Close()
	})
	var lookup wikipedia.Lookup = wikiClient
	if cfg.Wikipedia.CacheEnabled {
		lookup = wikipedia.NewFileCache(cfg.Wikipedia.CacheDirectory, wikiClient)
	}

	var opts []resolver.Option
	if cfg.Resolver.Memory {
		opts = append(opts, resolver.WithHistory(resolver.NewHistory(cfg.Resolver.HistoryTurns)))
	}
	res := resolver.New(client, lookup, opts...)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(res, cfg.Server.CORS).Handler(),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

type closableClient interface {
	inference.Client
	Close() error
}

func newInferenceClient(cfg *config.Config) (closableClient, error) {
	switch cfg.Backend.Provider {
	case "ollama":
		return ollama.NewClient(
			cfg.Backend.Ollama.Host,
			cfg.Backend.Ollama.Model,
			cfg.Backend.RetryAttempts,
		), nil
	case "openai":
		if cfg.Backend.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		return openai.NewClient(
			cfg.Backend.OpenAI.BaseURL,
			cfg.Backend.OpenAI.APIKey,
			cfg.Backend.OpenAI.Model,
			cfg.Backend.RetryAttempts,
		), nil
	default:
		return nil, fmt.Errorf("unknown backend provider: %s", cfg.Backend.Provider)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}
