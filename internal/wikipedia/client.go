// Package wikipedia looks up article summaries through the MediaWiki Action API.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"resty.dev/v3"
)

//go:generate mockgen -source=client.go -destination=../mocks/wikipedia/mock_lookup.go -package=mock_wikipedia

// Lookup finds an article summary for a topic
type Lookup interface {
	Summary(ctx context.Context, topic string) (Article, error)
}

// ErrNotFound signals that no matching article exists
var ErrNotFound = errors.New("no wikipedia page found")

// Article is a resolved encyclopedia article
type Article struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
}

const (
	// DefaultBaseURL is the English Wikipedia API endpoint
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"
	// DefaultSentences matches the original lookup depth
	DefaultSentences = 10

	// searchLimit is how many search hits to request. Only the top hit is
	// fetched; requesting a few lets ambiguous terms still resolve.
	searchLimit = 3

	userAgent = "wikibot/1.0 (https://github.com/at-ishikawa/wikibot)"
)

type Client struct {
	httpClient *resty.Client
	sentences  int
}

var _ Lookup = (*Client)(nil)

// NewClient creates a MediaWiki API client. An empty baseURL falls back to
// English Wikipedia; sentences caps the extract length (API maximum is 10).
func NewClient(baseURL string, sentences int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if sentences <= 0 || sentences > 10 {
		sentences = DefaultSentences
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("User-Agent", userAgent)

	return &Client{
		httpClient: client,
		sentences:  sentences,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

type queryResponse struct {
	Query struct {
		Search []searchHit     `json:"search"`
		Pages  map[string]page `json:"pages"`
	} `json:"query"`
}

type searchHit struct {
	Title   string `json:"title"`
	PageID  int    `json:"pageid"`
	Snippet string `json:"snippet"`
}

type page struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Missing string `json:"missing"`
}

// Summary searches for the topic and returns the intro extract of the top hit
func (client *Client) Summary(ctx context.Context, topic string) (Article, error) {
	title, err := client.search(ctx, topic)
	if err != nil {
		return Article{}, err
	}

	article, err := client.extract(ctx, title)
	if err != nil {
		return Article{}, err
	}
	slog.Default().Debug("wikipedia lookup",
		"topic", topic,
		"title", article.Title,
	)
	return article, nil
}

func (client *Client) search(ctx context.Context, topic string) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":   "query",
			"list":     "search",
			"srsearch": topic,
			"srlimit":  strconv.Itoa(searchLimit),
			"format":   "json",
		}).
		SetResult(&queryResponse{}).
		Get("")
	if err != nil {
		return "", fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*queryResponse)
	if responseBody == nil || len(responseBody.Query.Search) == 0 {
		return "", fmt.Errorf("topic %q: %w", topic, ErrNotFound)
	}
	// The top search hit is the original scripts' disambiguation strategy
	return responseBody.Query.Search[0].Title, nil
}

func (client *Client) extract(ctx context.Context, title string) (Article, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":      "query",
			"prop":        "extracts",
			"titles":      title,
			"exsentences": strconv.Itoa(client.sentences),
			"explaintext": "1",
			"exintro":     "1",
			"redirects":   "1",
			"format":      "json",
		}).
		SetResult(&queryResponse{}).
		Get("")
	if err != nil {
		return Article{}, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return Article{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*queryResponse)
	if responseBody == nil {
		return Article{}, fmt.Errorf("empty response body: %s", response.String())
	}
	for _, p := range responseBody.Query.Pages {
		if p.Extract == "" {
			continue
		}
		return Article{
			Title:   p.Title,
			Extract: p.Extract,
			URL:     client.pageURL(p.Title),
		}, nil
	}
	return Article{}, fmt.Errorf("title %q: %w", title, ErrNotFound)
}

// pageURL derives the canonical article URL from the API endpoint
func (client *Client) pageURL(title string) string {
	base, err := url.Parse(client.httpClient.BaseURL())
	if err != nil || base.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/wiki/%s",
		base.Scheme,
		base.Host,
		url.PathEscape(strings.ReplaceAll(title, " ", "_")),
	)
}
