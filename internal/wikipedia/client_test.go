package wikipedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func TestClient_Summary(t *testing.T) {
	tests := []struct {
		name              string
		topic             string
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantArticle     Article
		wantError       bool
		wantErrorIs     error
		wantErrorString string
	}{
		{
			name:  "Top search hit is extracted",
			topic: "element Mercury",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)

				query := r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				switch query.Get("list") {
				case "search":
					assert.Equal(t, "element Mercury", query.Get("srsearch"))
					assert.Equal(t, "3", query.Get("srlimit"))
					json.NewEncoder(w).Encode(map[string]any{
						"query": map[string]any{
							"search": []map[string]any{
								{"title": "Mercury (element)", "pageid": 18617142},
								{"title": "Mercury (planet)", "pageid": 19694},
							},
						},
					})
				default:
					assert.Equal(t, "extracts", query.Get("prop"))
					assert.Equal(t, "Mercury (element)", query.Get("titles"))
					assert.Equal(t, "10", query.Get("exsentences"))
					assert.Equal(t, "1", query.Get("explaintext"))
					assert.Equal(t, "1", query.Get("exintro"))
					json.NewEncoder(w).Encode(map[string]any{
						"query": map[string]any{
							"pages": map[string]any{
								"18617142": map[string]any{
									"pageid":  18617142,
									"title":   "Mercury (element)",
									"extract": "Mercury is a chemical element with the symbol Hg.",
								},
							},
						},
					})
				}
			},
			wantArticle: Article{
				Title:   "Mercury (element)",
				Extract: "Mercury is a chemical element with the symbol Hg.",
			},
		},
		{
			name:  "No search hits",
			topic: "zxqvbn nonsense",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"query": map[string]any{"search": []any{}},
				})
			},
			wantError:   true,
			wantErrorIs: ErrNotFound,
		},
		{
			name:  "Page without an extract",
			topic: "ghost page",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				if query.Get("list") == "search" {
					json.NewEncoder(w).Encode(map[string]any{
						"query": map[string]any{
							"search": []map[string]any{
								{"title": "Ghost page", "pageid": 1},
							},
						},
					})
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"query": map[string]any{
						"pages": map[string]any{
							"-1": map[string]any{"title": "Ghost page", "missing": ""},
						},
					},
				})
			},
			wantError:   true,
			wantErrorIs: ErrNotFound,
		},
		{
			name:  "API error",
			topic: "anything",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantError:       true,
			wantErrorString: "response error 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient: resty.New().SetBaseURL(server.URL),
				sentences:  DefaultSentences,
			}

			gotArticle, gotErr := client.Summary(context.Background(), tt.topic)

			if tt.wantError {
				require.Error(t, gotErr)
				if tt.wantErrorIs != nil {
					assert.ErrorIs(t, gotErr, tt.wantErrorIs)
				}
				if tt.wantErrorString != "" {
					assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				}
				return
			}

			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantArticle.Title, gotArticle.Title)
			assert.Equal(t, tt.wantArticle.Extract, gotArticle.Extract)
			assert.Contains(t, gotArticle.URL, "/wiki/Mercury_%28element%29")
		})
	}
}

func TestClient_pageURL(t *testing.T) {
	client := NewClient("https://en.wikipedia.org/w/api.php", DefaultSentences)
	assert.Equal(t,
		"https://en.wikipedia.org/wiki/Mercury_%28element%29",
		client.pageURL("Mercury (element)"),
	)
}
