package inference

import (
	"fmt"
	"strings"
)

const RoleSystem Role = "system"

const answerSystemPrompt = "You are a knowledgeable assistant. " +
	"Answer the user's question clearly and concisely using your own knowledge. " +
	"However, if you are NOT confident in your answer, or the topic is too specific, " +
	"niche, or recent for you to answer accurately, respond with ONLY the word: " + NeedWiki + " " +
	"(nothing else, no explanation). Do NOT use " + NeedWiki + " if you genuinely know the answer."

const articleSystemPrompt = "You are a knowledgeable assistant. " +
	"You will be given a Wikipedia article as context. " +
	"Use ONLY that context to answer the user's question with a clear, concise summary. " +
	"If the context does not contain the answer, say that the article does not cover it."

const summarizeSystemPrompt = "You are an expert summarizer. " +
	"Produce a clear, concise summary of the text provided by the user, in plain prose. " +
	"Do not add commentary or information that is not in the text."

const (
	// resolveTopicHistoryWindow is how many recent turns the topic resolver sees
	resolveTopicHistoryWindow = 6
	// resolveTopicTurnLimit truncates long turns before they enter the resolver prompt
	resolveTopicTurnLimit = 300
)

// AnswerDirectMessages builds the conversation for a direct question,
// including any conversation history between the system prompt and the question.
func AnswerDirectMessages(params AnswerDirectRequest) []Turn {
	messages := make([]Turn, 0, len(params.History)+2)
	messages = append(messages, Turn{Role: RoleSystem, Content: answerSystemPrompt})
	messages = append(messages, params.History...)
	messages = append(messages, Turn{Role: RoleUser, Content: params.Question})
	return messages
}

// AnswerFromArticleMessages builds the conversation for a context-grounded answer
func AnswerFromArticleMessages(params AnswerFromArticleRequest) []Turn {
	userContent := fmt.Sprintf(
		"Wikipedia article: %s\n\n%s\n\nQuestion: %s",
		params.ArticleTitle,
		params.ArticleExtract,
		params.Question,
	)
	return []Turn{
		{Role: RoleSystem, Content: articleSystemPrompt},
		{Role: RoleUser, Content: userContent},
	}
}

// ResolveTopicMessages builds the single-message prompt that resolves vague
// references like "it", "that" or "tell me more" into a concrete search topic
func ResolveTopicMessages(params ResolveTopicRequest) []Turn {
	history := params.History
	if len(history) > resolveTopicHistoryWindow {
		history = history[len(history)-resolveTopicHistoryWindow:]
	}

	var historyText strings.Builder
	for _, turn := range history {
		content := turn.Content
		if runes := []rune(content); len(runes) > resolveTopicTurnLimit {
			content = string(runes[:resolveTopicTurnLimit])
		}
		historyText.WriteString(fmt.Sprintf("%s: %s\n", capitalizeRole(turn.Role), content))
	}

	prompt := fmt.Sprintf(
		"You are a search query resolver. "+
			"Given a conversation history and the user's latest message, "+
			"output ONLY a short, clear Wikipedia search query that captures what the user is asking about. "+
			"Resolve pronouns like 'it', 'that', 'the element', 'tell me more' to the actual topic. "+
			"Do NOT explain. Output ONLY the search query and nothing else.\n\n"+
			"Conversation so far:\n%s\n"+
			"User's latest message: %s\n\n"+
			"Wikipedia search query:",
		historyText.String(),
		params.Question,
	)
	return []Turn{{Role: RoleUser, Content: prompt}}
}

// SummarizeMessages builds the conversation for a summarization call
func SummarizeMessages(params SummarizeRequest) []Turn {
	systemPrompt := summarizeSystemPrompt
	if params.MaxWords > 0 {
		systemPrompt += fmt.Sprintf(" Keep the summary under roughly %d words.", params.MaxWords)
	}
	return []Turn{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: params.Text},
	}
}

func capitalizeRole(role Role) string {
	s := string(role)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
