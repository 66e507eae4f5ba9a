package main

import (
	"fmt"

	"github.com/at-ishikawa/wikibot/internal/inference/ollama"
	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available on the local Ollama runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			client := ollama.NewClient(
				cfg.Backend.Ollama.Host,
				cfg.Backend.Ollama.Model,
				cfg.Backend.RetryAttempts,
			)
			defer func() {
				_ = client.Close()
			}()

			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.ListModels() > %w", err)
			}
			if len(models) == 0 {
				fmt.Println("No models found. Pull one with `ollama pull <model>`.")
				return nil
			}

			for _, model := range models {
				fmt.Printf("%s\t%.1f GB\n", model.Name, float64(model.Size)/(1<<30))
			}
			return nil
		},
	}
}
