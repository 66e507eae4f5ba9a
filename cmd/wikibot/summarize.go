package main

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/wikibot/internal/summarize"
	"github.com/spf13/cobra"
)

func newSummarizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file-or-url>",
		Short: "Summarize a local text file or a web page with the model backend",
		Args:  cobra.ExactArgs(1),
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

			summarizer := summarize.New(client, cfg.Summarize.ChunkSize, cfg.Summarize.ChunkOverlap)
			defer func() {
				_ = summarizer.Close()
			}()

			target := args[0]
			var result summarize.Result
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				result, err = summarizer.URL(cmd.Context(), target)
			} else {
				result, err = summarizer.File(cmd.Context(), target)
			}
			if err != nil {
				return fmt.Errorf("summarize %s > %w", target, err)
			}

			fmt.Println(result.Summary)
			if result.Usage.TotalTokens > 0 {
				fmt.Printf("\n(%d chunks, %d tokens)\n", result.Chunks, result.Usage.TotalTokens)
			}
			return nil
		},
	}
}
