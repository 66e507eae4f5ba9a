// Package resolver implements the model-first, Wikipedia-fallback answer flow.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/wikibot/internal/inference"
	"github.com/at-ishikawa/wikibot/internal/wikipedia"
)

// Source tags which backend produced a final answer
type Source string

const (
	SourceModel     Source = "model"
	SourceWikipedia Source = "wikipedia"
	SourceNone      Source = "none"
)

const (
	// NoAnswerText is returned when both the model and the lookup fail
	NoAnswerText = "Sorry, I couldn't find an answer to that question, either from the model or from Wikipedia."
	// EmptyQueryText is returned without consulting any backend
	EmptyQueryText = "Please enter a question."
)

// FinalAnswer is the resolved text plus the source that produced it
type FinalAnswer struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	// Title is the matched article title when Source is SourceWikipedia
	Title string          `json:"title,omitempty"`
	Usage inference.Usage `json:"usage"`
}

// Resolver asks the model backend first and falls back to a Wikipedia
// lookup when the model's reply is unusable
type Resolver struct {
	model     inference.Client
	lookup    wikipedia.Lookup
	usability Usability
	history   *History
}

type Option func(*Resolver)

// WithUsability replaces the default usable-reply predicate
func WithUsability(usability Usability) Option {
	return func(r *Resolver) {
		r.usability = usability
	}
}

// WithHistory enables conversation memory and LLM topic resolution
func WithHistory(history *History) Option {
	return func(r *Resolver) {
		r.history = history
	}
}

func New(model inference.Client, lookup wikipedia.Lookup, opts ...Option) *Resolver {
	resolver := &Resolver{
		model:     model,
		lookup:    lookup,
		usability: DefaultUsability,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Resolve answers a question. It never returns an error: a failure of the
// model surfaces as a fallback lookup, and a failure of both surfaces as a
// FinalAnswer carrying NoAnswerText.
func (r *Resolver) Resolve(ctx context.Context, query string) FinalAnswer {
	query = strings.TrimSpace(query)
	if query == "" {
		return FinalAnswer{Text: EmptyQueryText, Source: SourceNone}
	}

	var usage inference.Usage
	answer := r.resolve(ctx, query, &usage)
	answer.Usage = usage

	if r.history != nil {
		r.history.Add(inference.RoleUser, query)
		r.history.Add(inference.RoleAssistant, answer.Text)
	}
	return answer
}

func (r *Resolver) resolve(ctx context.Context, query string, usage *inference.Usage) FinalAnswer {
	direct, err := r.model.AnswerDirect(ctx, inference.AnswerDirectRequest{
		Question: query,
		History:  r.historyTurns(),
	})
	if err != nil {
		slog.Default().Warn("model backend unavailable, falling back to wikipedia",
			"error", err,
		)
	} else {
		usage.Add(direct.Usage)
		if r.usability(direct.Text) {
			return FinalAnswer{Text: strings.TrimSpace(direct.Text), Source: SourceModel}
		}
		slog.Default().Debug("model reply unusable, falling back to wikipedia",
			"reply", direct.Text,
		)
	}

	article, err := r.lookup.Summary(ctx, r.searchTopic(ctx, query, usage))
	if err != nil {
		slog.Default().Warn("wikipedia fallback unavailable",
			"error", err,
		)
		return FinalAnswer{Text: NoAnswerText, Source: SourceNone}
	}

	return r.answerFromArticle(ctx, query, article, usage)
}

// searchTopic decides what to send to the lookup: the LLM topic resolver when
// memory is enabled and non-empty, the cleaned query otherwise
func (r *Resolver) searchTopic(ctx context.Context, query string, usage *inference.Usage) string {
	if r.history == nil || r.history.Len() == 0 {
		return CleanQuery(query)
	}

	resolved, err := r.model.ResolveTopic(ctx, inference.ResolveTopicRequest{
		Question: query,
		History:  r.history.Turns(),
	})
	if err != nil || strings.TrimSpace(resolved.Topic) == "" {
		slog.Default().Debug("topic resolution failed, using cleaned query",
			"error", err,
		)
		return CleanQuery(query)
	}
	usage.Add(resolved.Usage)
	return resolved.Topic
}

// answerFromArticle asks the model to answer from the article extract and
// falls back to the raw extract when that call fails or is unusable
func (r *Resolver) answerFromArticle(
	ctx context.Context,
	query string,
	article wikipedia.Article,
	usage *inference.Usage,
) FinalAnswer {
	grounded, err := r.model.AnswerFromArticle(ctx, inference.AnswerFromArticleRequest{
		Question:       query,
		ArticleTitle:   article.Title,
		ArticleExtract: article.Extract,
	})
	if err == nil {
		usage.Add(grounded.Usage)
	}
	if err == nil && r.usability(grounded.Text) {
		return FinalAnswer{
			Text:   strings.TrimSpace(grounded.Text),
			Source: SourceWikipedia,
			Title:  article.Title,
		}
	}

	return FinalAnswer{
		Text:   article.Extract,
		Source: SourceWikipedia,
		Title:  article.Title,
	}
}

func (r *Resolver) historyTurns() []inference.Turn {
	if r.history == nil {
		return nil
	}
	return r.history.Turns()
}
