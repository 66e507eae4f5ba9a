package main

import (
	"fmt"

	"github.com/at-ishikawa/wikibot/internal/cli"
	"github.com/spf13/cobra"
)

func newChatCommand() *cobra.Command {
	var noMemory bool
	command := &cobra.Command{
		Use:   "chat",
		Short: "Interactive question and answer session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			client, err := newInferenceClient(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			lookup, wikiClient := newLookup(cfg)
			defer func() {
				_ = wikiClient.Close()
			}()

			res := newResolver(cfg, client, lookup, !noMemory)
			chatCLI := cli.NewChatCLI(res)

			fmt.Printf("Using %s provider (model: %s)\n", cfg.Backend.Provider, client.GetModel())
			fmt.Println("Ask me anything. An empty line, 'quit' or 'exit' ends the session.")
			fmt.Println()
			return chatCLI.Run(cmd.Context(), chatCLI)
		},
	}
	command.Flags().BoolVar(&noMemory, "no-memory", false, "Disable conversation memory and topic resolution")

	return command
}
