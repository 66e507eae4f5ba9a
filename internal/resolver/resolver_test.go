package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wikibot/internal/inference"
	mock_inference "github.com/at-ishikawa/wikibot/internal/mocks/inference"
	mock_wikipedia "github.com/at-ishikawa/wikibot/internal/mocks/wikipedia"
	"github.com/at-ishikawa/wikibot/internal/wikipedia"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMocks func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup)

		want FinalAnswer
	}{
		{
			name:  "usable model reply answers without a lookup",
			query: "What is the capital of France?",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), inference.AnswerDirectRequest{
						Question: "What is the capital of France?",
					}).
					Return(inference.AnswerResponse{
						Text: "The capital of France is Paris.",
						Usage: inference.Usage{
							PromptTokens:     20,
							CompletionTokens: 8,
							TotalTokens:      28,
						},
					}, nil)
			},
			want: FinalAnswer{
				Text:   "The capital of France is Paris.",
				Source: SourceModel,
				Usage: inference.Usage{
					PromptTokens:     20,
					CompletionTokens: 8,
					TotalTokens:      28,
				},
			},
		},
		{
			name:  "sentinel reply falls back to wikipedia exactly once",
			query: "Tell me about the Voynich manuscript",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
				lookup.EXPECT().
					Summary(gomock.Any(), "the Voynich manuscript").
					Times(1).
					Return(wikipedia.Article{
						Title:   "Voynich manuscript",
						Extract: "The Voynich manuscript is an illustrated codex.",
						URL:     "https://en.wikipedia.org/wiki/Voynich_manuscript",
					}, nil)
				model.EXPECT().
					AnswerFromArticle(gomock.Any(), inference.AnswerFromArticleRequest{
						Question:       "Tell me about the Voynich manuscript",
						ArticleTitle:   "Voynich manuscript",
						ArticleExtract: "The Voynich manuscript is an illustrated codex.",
					}).
					Return(inference.AnswerResponse{
						Text: "It is an illustrated codex in an unknown script.",
					}, nil)
			},
			want: FinalAnswer{
				Text:   "It is an illustrated codex in an unknown script.",
				Source: SourceWikipedia,
				Title:  "Voynich manuscript",
			},
		},
		{
			name:  "refusal reply falls back to wikipedia",
			query: "Who is Ada Lovelace?",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{Text: "I don't know much about that topic."}, nil)
				lookup.EXPECT().
					Summary(gomock.Any(), "Ada Lovelace?").
					Return(wikipedia.Article{
						Title:   "Ada Lovelace",
						Extract: "Ada Lovelace was an English mathematician.",
					}, nil)
				model.EXPECT().
					AnswerFromArticle(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{
						Text: "Ada Lovelace was an English mathematician and writer.",
					}, nil)
			},
			want: FinalAnswer{
				Text:   "Ada Lovelace was an English mathematician and writer.",
				Source: SourceWikipedia,
				Title:  "Ada Lovelace",
			},
		},
		{
			name:  "model error falls back to wikipedia",
			query: "What is photosynthesis?",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{}, errors.New("connection refused"))
				lookup.EXPECT().
					Summary(gomock.Any(), "photosynthesis?").
					Return(wikipedia.Article{
						Title:   "Photosynthesis",
						Extract: "Photosynthesis is a biological process.",
					}, nil)
				model.EXPECT().
					AnswerFromArticle(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{}, errors.New("connection refused"))
			},
			want: FinalAnswer{
				Text:   "Photosynthesis is a biological process.",
				Source: SourceWikipedia,
				Title:  "Photosynthesis",
			},
		},
		{
			name:  "unusable grounded answer falls back to the raw extract",
			query: "What is the Oort cloud?",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
				lookup.EXPECT().
					Summary(gomock.Any(), "the Oort cloud?").
					Return(wikipedia.Article{
						Title:   "Oort cloud",
						Extract: "The Oort cloud is a theorized shell of icy objects.",
					}, nil)
				model.EXPECT().
					AnswerFromArticle(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{Text: ""}, nil)
			},
			want: FinalAnswer{
				Text:   "The Oort cloud is a theorized shell of icy objects.",
				Source: SourceWikipedia,
				Title:  "Oort cloud",
			},
		},
		{
			name:  "both backends fail returns the static no-answer text",
			query: "zxqvbn nonsense",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
				model.EXPECT().
					AnswerDirect(gomock.Any(), gomock.Any()).
					Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
				lookup.EXPECT().
					Summary(gomock.Any(), "zxqvbn nonsense").
					Return(wikipedia.Article{}, wikipedia.ErrNotFound)
			},
			want: FinalAnswer{
				Text:   NoAnswerText,
				Source: SourceNone,
			},
		},
		{
			name:  "empty query consults no backend",
			query: "   ",
			setupMocks: func(model *mock_inference.MockClient, lookup *mock_wikipedia.MockLookup) {
			},
			want: FinalAnswer{
				Text:   EmptyQueryText,
				Source: SourceNone,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockModel := mock_inference.NewMockClient(ctrl)
			mockLookup := mock_wikipedia.NewMockLookup(ctrl)
			tt.setupMocks(mockModel, mockLookup)

			resolver := New(mockModel, mockLookup)
			got := resolver.Resolve(context.Background(), tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Resolve_usageAccumulates(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockModel := mock_inference.NewMockClient(ctrl)
	mockLookup := mock_wikipedia.NewMockLookup(ctrl)

	mockModel.EXPECT().
		AnswerDirect(gomock.Any(), gomock.Any()).
		Return(inference.AnswerResponse{
			Text:  inference.NeedWiki,
			Usage: inference.Usage{PromptTokens: 10, CompletionTokens: 1, TotalTokens: 11},
		}, nil)
	mockLookup.EXPECT().
		Summary(gomock.Any(), gomock.Any()).
		Return(wikipedia.Article{Title: "Mercury (element)", Extract: "Mercury is a chemical element."}, nil)
	mockModel.EXPECT().
		AnswerFromArticle(gomock.Any(), gomock.Any()).
		Return(inference.AnswerResponse{
			Text: "Mercury is the only metal that is liquid at room temperature.",
			Usage: inference.Usage{
				PromptTokens:     100,
				CompletionTokens: 20,
				TotalTokens:      120,
				RemainingTokens:  "39000",
				LimitTokens:      "40000",
			},
		}, nil)

	resolver := New(mockModel, mockLookup)
	got := resolver.Resolve(context.Background(), "Tell me about element Mercury")

	assert.Equal(t, SourceWikipedia, got.Source)
	assert.Equal(t, inference.Usage{
		PromptTokens:     110,
		CompletionTokens: 21,
		TotalTokens:      131,
		RemainingTokens:  "39000",
		LimitTokens:      "40000",
	}, got.Usage)
}

func TestResolver_Resolve_withHistory(t *testing.T) {
	t.Run("topic resolution uses the recorded conversation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockModel := mock_inference.NewMockClient(ctrl)
		mockLookup := mock_wikipedia.NewMockLookup(ctrl)

		history := NewHistory(DefaultHistoryTurns)
		history.Add(inference.RoleUser, "Tell me about element Mercury")
		history.Add(inference.RoleAssistant, "Mercury is a chemical element with symbol Hg.")

		mockModel.EXPECT().
			AnswerDirect(gomock.Any(), inference.AnswerDirectRequest{
				Question: "What is its boiling point?",
				History:  history.Turns(),
			}).
			Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
		mockModel.EXPECT().
			ResolveTopic(gomock.Any(), inference.ResolveTopicRequest{
				Question: "What is its boiling point?",
				History:  history.Turns(),
			}).
			Return(inference.ResolveTopicResponse{Topic: "Mercury (element)"}, nil)
		mockLookup.EXPECT().
			Summary(gomock.Any(), "Mercury (element)").
			Return(wikipedia.Article{
				Title:   "Mercury (element)",
				Extract: "Mercury boils at 356.7 degrees Celsius.",
			}, nil)
		mockModel.EXPECT().
			AnswerFromArticle(gomock.Any(), gomock.Any()).
			Return(inference.AnswerResponse{Text: "Mercury boils at 356.7 degrees Celsius."}, nil)

		resolver := New(mockModel, mockLookup, WithHistory(history))
		got := resolver.Resolve(context.Background(), "What is its boiling point?")

		assert.Equal(t, SourceWikipedia, got.Source)
		assert.Equal(t, "Mercury boils at 356.7 degrees Celsius.", got.Text)

		// The question and the answer are appended after resolution
		turns := history.Turns()
		assert.Len(t, turns, 4)
		assert.Equal(t, inference.Turn{Role: inference.RoleUser, Content: "What is its boiling point?"}, turns[2])
		assert.Equal(t, inference.Turn{Role: inference.RoleAssistant, Content: "Mercury boils at 356.7 degrees Celsius."}, turns[3])
	})

	t.Run("failed topic resolution falls back to the cleaned query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockModel := mock_inference.NewMockClient(ctrl)
		mockLookup := mock_wikipedia.NewMockLookup(ctrl)

		history := NewHistory(DefaultHistoryTurns)
		history.Add(inference.RoleUser, "hello")
		history.Add(inference.RoleAssistant, "Hi, ask me anything.")

		mockModel.EXPECT().
			AnswerDirect(gomock.Any(), gomock.Any()).
			Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
		mockModel.EXPECT().
			ResolveTopic(gomock.Any(), gomock.Any()).
			Return(inference.ResolveTopicResponse{}, errors.New("response error 500"))
		mockLookup.EXPECT().
			Summary(gomock.Any(), "the Eiffel Tower").
			Return(wikipedia.Article{Title: "Eiffel Tower", Extract: "The Eiffel Tower is in Paris."}, nil)
		mockModel.EXPECT().
			AnswerFromArticle(gomock.Any(), gomock.Any()).
			Return(inference.AnswerResponse{Text: "It is a wrought-iron tower in Paris."}, nil)

		resolver := New(mockModel, mockLookup, WithHistory(history))
		got := resolver.Resolve(context.Background(), "Tell me about the Eiffel Tower")

		assert.Equal(t, SourceWikipedia, got.Source)
	})

	t.Run("empty history skips topic resolution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockModel := mock_inference.NewMockClient(ctrl)
		mockLookup := mock_wikipedia.NewMockLookup(ctrl)

		mockModel.EXPECT().
			AnswerDirect(gomock.Any(), gomock.Any()).
			Return(inference.AnswerResponse{Text: inference.NeedWiki}, nil)
		mockLookup.EXPECT().
			Summary(gomock.Any(), "gravity").
			Return(wikipedia.Article{}, wikipedia.ErrNotFound)

		resolver := New(mockModel, mockLookup, WithHistory(NewHistory(DefaultHistoryTurns)))
		got := resolver.Resolve(context.Background(), "What is gravity")
		assert.Equal(t, NoAnswerText, got.Text)
	})
}

func TestResolver_Resolve_customUsability(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockModel := mock_inference.NewMockClient(ctrl)
	mockLookup := mock_wikipedia.NewMockLookup(ctrl)

	// Reject everything so the fallback always runs
	mockModel.EXPECT().
		AnswerDirect(gomock.Any(), gomock.Any()).
		Return(inference.AnswerResponse{Text: "A perfectly good answer."}, nil)
	mockLookup.EXPECT().
		Summary(gomock.Any(), gomock.Any()).
		Return(wikipedia.Article{}, wikipedia.ErrNotFound)

	resolver := New(mockModel, mockLookup, WithUsability(func(reply string) bool {
		return false
	}))
	got := resolver.Resolve(context.Background(), "anything")
	assert.Equal(t, SourceNone, got.Source)
}
