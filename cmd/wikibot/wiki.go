package main

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/spf13/cobra"
)

func newWikiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wiki <topic>",
		Short: "Look up a topic on Wikipedia directly, bypassing the model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			lookup, wikiClient := newLookup(cfg)
			defer func() {
				_ = wikiClient.Close()
			}()

			topic := resolver.CleanQuery(strings.Join(args, " "))
			article, err := lookup.Summary(cmd.Context(), topic)
			if err != nil {
				return fmt.Errorf("lookup.Summary(%s) > %w", topic, err)
			}

			fmt.Printf("%s\n\n%s\n", article.Title, article.Extract)
			if article.URL != "" {
				fmt.Printf("\n%s\n", article.URL)
			}
			return nil
		},
	}
}
