package main

import (
	"fmt"

	"github.com/at-ishikawa/wikibot/internal/config"
	"github.com/at-ishikawa/wikibot/internal/inference"
	"github.com/at-ishikawa/wikibot/internal/inference/ollama"
	"github.com/at-ishikawa/wikibot/internal/inference/openai"
	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/at-ishikawa/wikibot/internal/wikipedia"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// inferenceClient is an inference.Client with a lifecycle
type inferenceClient interface {
	inference.Client
	GetModel() string
	Close() error
}

// newInferenceClient creates the model backend selected in the configuration
func newInferenceClient(cfg *config.Config) (inferenceClient, error) {
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

// newLookup creates the Wikipedia lookup, wrapped with a file cache when enabled
func newLookup(cfg *config.Config) (wikipedia.Lookup, *wikipedia.Client) {
	client := wikipedia.NewClient(cfg.Wikipedia.BaseURL, cfg.Wikipedia.Sentences)
	if cfg.Wikipedia.CacheEnabled {
		return wikipedia.NewFileCache(cfg.Wikipedia.CacheDirectory, client), client
	}
	return client, client
}

// newResolver wires a resolver from the configuration
func newResolver(cfg *config.Config, client inference.Client, lookup wikipedia.Lookup, withMemory bool) *resolver.Resolver {
	var opts []resolver.Option
	if withMemory && cfg.Resolver.Memory {
		opts = append(opts, resolver.WithHistory(resolver.NewHistory(cfg.Resolver.HistoryTurns)))
	}
	return resolver.New(client, lookup, opts...)
}
