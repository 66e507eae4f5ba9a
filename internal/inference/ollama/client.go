package ollama

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

// DefaultHost is where a locally running Ollama daemon listens
const DefaultHost = "http://localhost:11434"

// Client talks to a local Ollama runtime through its native chat API
type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

var _ inference.Client = (*Client)(nil)

func NewClient(host, model string, retryAttempts uint) *Client {
	if host == "" {
		host = DefaultHost
	}
	client := resty.New()
	client.SetBaseURL(host)
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

type ChatRequest struct {
	Model    string      `json:"model"`
	Messages []Message   `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  ChatOptions `json:"options,omitempty"`
}

type ChatOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
}

type Message struct {
	Role    inference.Role `json:"role"`
	Content string         `json:"content"`
}

type ChatResponse struct {
	Model           string  `json:"model"`
	Message         Message `json:"message"`
	Done            bool    `json:"done"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}

// TagsResponse is the reply of GET /api/tags
type TagsResponse struct {
	Models []ModelTag `json:"models"`
}

type ModelTag struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	return false
}

// complete performs a single chat call against /api/chat
func (client *Client) complete(
	ctx context.Context,
	messages []inference.Turn,
	temperature float32,
) (string, inference.Usage, error) {
	requestMessages := make([]Message, 0, len(messages))
	for _, turn := range messages {
		requestMessages = append(requestMessages, Message{Role: turn.Role, Content: turn.Content})
	}
	requestBody := ChatRequest{
		Model:    client.model,
		Messages: requestMessages,
		Stream:   false,
		Options:  ChatOptions{Temperature: temperature},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatResponse{}).
		Post("/api/chat")
	if err != nil {
		return "", inference.Usage{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", inference.Usage{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatResponse)
	if responseBody == nil || responseBody.Message.Content == "" {
		return "", inference.Usage{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("ollama response content",
		"request", requestBody,
		"response", responseBody,
	)

	// Ollama reports evaluated token counts instead of billed tokens
	usage := inference.Usage{
		PromptTokens:     responseBody.PromptEvalCount,
		CompletionTokens: responseBody.EvalCount,
		TotalTokens:      responseBody.PromptEvalCount + responseBody.EvalCount,
	}
	return responseBody.Message.Content, usage, nil
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

// ListModels returns the models available on the local runtime
func (client *Client) ListModels(ctx context.Context) ([]ModelTag, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetResult(&TagsResponse{}).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*TagsResponse)
	if responseBody == nil {
		return nil, fmt.Errorf("empty response body: %s", response.String())
	}
	return responseBody.Models, nil
}
