package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	// AnswerDirect asks the model to answer a question from its own knowledge.
	// The model replies with the NeedWiki sentinel when it is not confident.
	AnswerDirect(ctx context.Context, params AnswerDirectRequest) (AnswerResponse, error)
	// AnswerFromArticle asks the model to answer a question using only the
	// provided encyclopedia article as context.
	AnswerFromArticle(ctx context.Context, params AnswerFromArticleRequest) (AnswerResponse, error)
	// ResolveTopic turns the user's latest message plus recent conversation
	// history into a concrete encyclopedia search topic.
	ResolveTopic(ctx context.Context, params ResolveTopicRequest) (ResolveTopicResponse, error)
	// Summarize condenses a piece of text into a short summary.
	Summarize(ctx context.Context, params SummarizeRequest) (SummarizeResponse, error)
}

// NeedWiki is the sentinel reply the model uses to signal it is not
// confident enough to answer from its own knowledge.
const NeedWiki = "NEED_WIKI"

// Turn is a single message of a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AnswerDirectRequest holds parameters for a direct question
type AnswerDirectRequest struct {
	Question string `json:"question"`
	// History is the recent conversation, oldest first. Optional.
	History []Turn `json:"history,omitempty"`
}

// AnswerFromArticleRequest holds parameters for a context-grounded answer
type AnswerFromArticleRequest struct {
	Question       string `json:"question"`
	ArticleTitle   string `json:"article_title"`
	ArticleExtract string `json:"article_extract"`
}

// AnswerResponse is a model reply plus its token accounting
type AnswerResponse struct {
	Text  string
	Usage Usage
}

// ResolveTopicRequest holds parameters for resolving a search topic
type ResolveTopicRequest struct {
	Question string `json:"question"`
	History  []Turn `json:"history,omitempty"`
}

type ResolveTopicResponse struct {
	Topic string
	Usage Usage
}

// SummarizeRequest holds parameters for summarizing text
type SummarizeRequest struct {
	Text string `json:"text"`
	// MaxWords is a soft target for the summary length. 0 means no target.
	MaxWords int `json:"max_words,omitempty"`
}

type SummarizeResponse struct {
	Summary string
	Usage   Usage
}

// Usage reports token consumption of a single model call.
// RemainingTokens and LimitTokens come from the provider's rate limit
// response headers and are empty when the provider does not send them.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	RemainingTokens  string `json:"remaining_tokens,omitempty"`
	LimitTokens      string `json:"limit_tokens,omitempty"`
}

// Add accumulates another call's token counts into u
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	if other.RemainingTokens != "" {
		u.RemainingTokens = other.RemainingTokens
	}
	if other.LimitTokens != "" {
		u.LimitTokens = other.LimitTokens
	}
}

const (
	DefaultMaxRetryAttempts = 3
)
