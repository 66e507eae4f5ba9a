package main

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
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

			res := newResolver(cfg, client, lookup, false)
			answer := res.Resolve(cmd.Context(), strings.Join(args, " "))

			fmt.Println(answer.Text)
			switch answer.Source {
			case resolver.SourceWikipedia:
				fmt.Printf("[source: wikipedia - %s]\n", answer.Title)
			default:
				fmt.Printf("[source: %s]\n", answer.Source)
			}
			return nil
		},
	}
}
