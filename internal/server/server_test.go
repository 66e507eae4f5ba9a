package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wikibot/internal/config"
	"github.com/at-ishikawa/wikibot/internal/resolver"
)

// fakeResolver replays one canned answer for every question
type fakeResolver struct {
	answer  resolver.FinalAnswer
	queries []string
}

func (fake *fakeResolver) Resolve(_ context.Context, query string) resolver.FinalAnswer {
	fake.queries = append(fake.queries, query)
	return fake.answer
}

func newTestServer(answer resolver.FinalAnswer) (*Server, *fakeResolver) {
	fake := &fakeResolver{answer: answer}
	server := New(fake, config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return server, fake
}

func TestServer_askHandler(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		answer resolver.FinalAnswer

		wantStatus  int
		wantQueries []string
		checkBody   func(t *testing.T, body []byte)
	}{
		{
			name: "question is resolved",
			body: `{"question": "What is the capital of France?"}`,
			answer: resolver.FinalAnswer{
				Text:   "The capital of France is Paris.",
				Source: resolver.SourceModel,
			},
			wantStatus:  http.StatusOK,
			wantQueries: []string{"What is the capital of France?"},
			checkBody: func(t *testing.T, body []byte) {
				var record AnswerRecord
				require.NoError(t, json.Unmarshal(body, &record))
				assert.Equal(t, "What is the capital of France?", record.Question)
				assert.Equal(t, "The capital of France is Paris.", record.Answer.Text)
				assert.Equal(t, resolver.SourceModel, record.Answer.Source)
				assert.False(t, record.AskedAt.IsZero())
			},
		},
		{
			name:       "missing question is a bad request",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank question is a bad request",
			body:       `{"question": "   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body is a bad request",
			body:       `{"question": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, fake := newTestServer(tt.answer)

			request := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBufferString(tt.body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantQueries, fake.queries)
			if tt.checkBody != nil {
				tt.checkBody(t, recorder.Body.Bytes())
			}
		})
	}
}

func TestServer_historyHandler(t *testing.T) {
	server, _ := newTestServer(resolver.FinalAnswer{
		Text:   "An answer.",
		Source: resolver.SourceModel,
	})

	t.Run("empty history", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Records []AnswerRecord `json:"records"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Empty(t, response.Records)
	})

	t.Run("answered questions are recorded in order", func(t *testing.T) {
		for _, question := range []string{"first", "second"} {
			body, err := json.Marshal(AskRequest{Question: question})
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBuffer(body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, request)
			require.Equal(t, http.StatusOK, recorder.Code)
		}

		request := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)

		var response struct {
			Records []AnswerRecord `json:"records"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Records, 2)
		assert.Equal(t, "first", response.Records[0].Question)
		assert.Equal(t, "second", response.Records[1].Question)
	})
}

func TestServer_appendRecord_boundsHistory(t *testing.T) {
	server, _ := newTestServer(resolver.FinalAnswer{})
	for i := 0; i < historyLimit+10; i++ {
		server.appendRecord(AnswerRecord{Question: "q"})
	}
	assert.Len(t, server.records, historyLimit)
}

func TestServer_healthHandler(t *testing.T) {
	server, _ := newTestServer(resolver.FinalAnswer{})

	request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status": "ok"}`, recorder.Body.String())
}

func TestServer_indexHandler(t *testing.T) {
	server, _ := newTestServer(resolver.FinalAnswer{})

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "<html")
}

func TestCORSMiddleware(t *testing.T) {
	server, _ := newTestServer(resolver.FinalAnswer{})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		request.Header.Set("Origin", "http://localhost:3000")
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)

		assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin is not echoed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		request.Header.Set("Origin", "https://evil.example.com")
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered without hitting a handler", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodOptions, "/api/v1/ask", nil)
		request.Header.Set("Origin", "http://localhost:3000")
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, "GET, POST, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
	})
}
