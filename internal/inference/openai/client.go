package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/wikibot/internal/inference"
	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// DefaultBaseURL is the standard OpenAI API endpoint. Any
// chat-completions compatible endpoint works, e.g. OpenCode Zen.
const DefaultBaseURL = "https://api.openai.com/v1"

// Rate limit headers returned by OpenAI compatible endpoints
const (
	headerRateLimitRemainingTokens = "x-ratelimit-remaining-tokens"
	headerRateLimitLimitTokens     = "x-ratelimit-limit-tokens"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

var _ inference.Client = (*Client)(nil)

func NewClient(baseURL, apiKey, model string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    inference.Role `json:"role"`
	Content string         `json:"content"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    inference.Role `json:"role"`
	Content string         `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// complete performs a single chat completion call
func (client *Client) complete(
	ctx context.Context,
	messages []inference.Turn,
	temperature float32,
) (string, inference.Usage, error) {
	requestMessages := make([]Message, 0, len(messages))
	for _, turn := range messages {
		requestMessages = append(requestMessages, Message{Role: turn.Role, Content: turn.Content})
	}
	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: temperature,
		Messages:    requestMessages,
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", inference.Usage{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", inference.Usage{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", inference.Usage{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", inference.Usage{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	usage := inference.Usage{
		PromptTokens:     responseBody.Usage.PromptTokens,
		CompletionTokens: responseBody.Usage.CompletionTokens,
		TotalTokens:      responseBody.Usage.TotalTokens,
		RemainingTokens:  response.Header().Get(headerRateLimitRemainingTokens),
		LimitTokens:      response.Header().Get(headerRateLimitLimitTokens),
	}
	return content, usage, nil
}

// completeWithRetry wraps complete with exponential backoff for retryable errors
func (client *Client) completeWithRetry(
	ctx context.Context,
	messages []inference.Turn,
	temperature float32,
) (string, inference.Usage, error) {
	var content string
	var usage inference.Usage
	if err := retry.Do(
		func() error {
			result, resultUsage, err := client.complete(ctx, messages, temperature)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			content = result
			usage = resultUsage
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", inference.Usage{}, err
	}
	return content, usage, nil
}

// AnswerDirect implements the inference.Client interface
func (client *Client) AnswerDirect(
	ctx context.Context,
	params inference.AnswerDirectRequest,
) (inference.AnswerResponse, error) {
	content, usage, err := client.completeWithRetry(ctx, inference.AnswerDirectMessages(params), 0.7)
	if err != nil {
		return inference.AnswerResponse{}, err
	}
	return inference.AnswerResponse{Text: content, Usage: usage}, nil
}

// AnswerFromArticle implements the inference.Client interface
func (client *Client) AnswerFromArticle(
	ctx context.Context,
	params inference.AnswerFromArticleRequest,
) (inference.AnswerResponse, error) {
	content, usage, err := client.completeWithRetry(ctx, inference.AnswerFromArticleMessages(params), 0.3)
	if err != nil {
		return inference.AnswerResponse{}, err
	}
	return inference.AnswerResponse{Text: content, Usage: usage}, nil
}

// ResolveTopic implements the inference.Client interface
func (client *Client) ResolveTopic(
	ctx context.Context,
	params inference.ResolveTopicRequest,
) (inference.ResolveTopicResponse, error) {
	content, usage, err := client.completeWithRetry(ctx, inference.ResolveTopicMessages(params), 0.1)
	if err != nil {
		return inference.ResolveTopicResponse{}, err
	}

	// The model sometimes wraps the query in quotes
	topic := strings.Trim(strings.TrimSpace(content), `"'`)
	return inference.ResolveTopicResponse{Topic: topic, Usage: usage}, nil
}

// Summarize implements the inference.Client interface
func (client *Client) Summarize(
	ctx context.Context,
	params inference.SummarizeRequest,
) (inference.SummarizeResponse, error) {
	content, usage, err := client.completeWithRetry(ctx, inference.SummarizeMessages(params), 0.3)
	if err != nil {
		return inference.SummarizeResponse{}, err
	}
	return inference.SummarizeResponse{Summary: strings.TrimSpace(content), Usage: usage}, nil
}
