// Package summarize condenses documents and web pages with the model backend.
package summarize

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/at-ishikawa/wikibot/internal/inference"
	"resty.dev/v3"
)

const (
	// DefaultChunkSize is the rune threshold above which map-reduce kicks in.
	// Larger chunks mean fewer model calls for long documents.
	DefaultChunkSize    = 3000
	DefaultChunkOverlap = 200

	chunkSummaryMaxWords = 150
	finalSummaryMaxWords = 250
)

// Result is a produced summary plus its cost
type Result struct {
	Summary string
	// Chunks is 1 for a single-call summary, more when map-reduce was used
	Chunks int
	Usage  inference.Usage
}

type Summarizer struct {
	model        inference.Client
	httpClient   *resty.Client
	chunkSize    int
	chunkOverlap int
}

func New(model inference.Client, chunkSize, chunkOverlap int) *Summarizer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Summarizer{
		model:        model,
		httpClient:   resty.New(),
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

func (s *Summarizer) Close() error {
	return s.httpClient.Close()
}

// File summarizes a local text, markdown or HTML file
func (s *Summarizer) File(ctx context.Context, path string) (Result, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	text := string(contents)
	if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") {
		text = ExtractReadableText(text)
	}
	return s.Text(ctx, text)
}

// URL fetches a web page, extracts its readable text, and summarizes it
func (s *Summarizer) URL(ctx context.Context, pageURL string) (Result, error) {
	response, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("User-Agent", "wikibot/1.0 (https://github.com/at-ishikawa/wikibot)").
		Get(pageURL)
	if err != nil {
		return Result{}, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return Result{}, fmt.Errorf("response error %d for %s", response.StatusCode(), pageURL)
	}

	text := ExtractReadableText(response.String())
	if text == "" {
		return Result{}, fmt.Errorf("no readable text found at %s", pageURL)
	}
	return s.Text(ctx, text)
}

// Text summarizes raw text. Short inputs take a single model call; long
// inputs are split into chunks, each chunk summarized, and the chunk
// summaries condensed in a final call.
func (s *Summarizer) Text(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("nothing to summarize")
	}

	chunks := splitChunks(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 1 {
		response, err := s.model.Summarize(ctx, inference.SummarizeRequest{
			Text:     chunks[0],
			MaxWords: finalSummaryMaxWords,
		})
		if err != nil {
			return Result{}, fmt.Errorf("model.Summarize > %w", err)
		}
		return Result{Summary: response.Summary, Chunks: 1, Usage: response.Usage}, nil
	}

	var usage inference.Usage
	chunkSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		response, err := s.model.Summarize(ctx, inference.SummarizeRequest{
			Text:     chunk,
			MaxWords: chunkSummaryMaxWords,
		})
		if err != nil {
			return Result{}, fmt.Errorf("model.Summarize chunk %d/%d > %w", i+1, len(chunks), err)
		}
		usage.Add(response.Usage)
		chunkSummaries = append(chunkSummaries, response.Summary)
	}

	final, err := s.model.Summarize(ctx, inference.SummarizeRequest{
		Text:     strings.Join(chunkSummaries, "\n\n"),
		MaxWords: finalSummaryMaxWords,
	})
	if err != nil {
		return Result{}, fmt.Errorf("model.Summarize final > %w", err)
	}
	usage.Add(final.Usage)

	return Result{Summary: final.Summary, Chunks: len(chunks), Usage: usage}, nil
}

// splitChunks splits text into chunks of at most size runes, cutting at
// whitespace where possible and overlapping consecutive chunks
func splitChunks(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= size {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		cut := end
		for cut > start && !unicode.IsSpace(runes[cut]) {
			cut--
		}
		if cut == start {
			// A single token longer than the chunk size; cut mid-token
			cut = end
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[start:cut])))

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}
