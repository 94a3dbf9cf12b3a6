package usecase

import (
	"fmt"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

const classificationSystemPrompt = `You are a feedback analysis assistant. Analyze user feedback and extract:
1. Theme (one word or short phrase: e.g., "Performance Issues", "Documentation Requests", "Feature Requests", "Bug Reports", "Pricing Concerns", "Integration Problems", "Security Questions", "Migration Support", "API Improvements", "User Experience")
2. Sentiment (one word: positive, neutral, or negative)
3. Urgency (one word: low, medium, high, or critical)
4. Value (one word: low, medium, or high)
5. Summary (one sentence)
6. Keywords (comma-separated list of 3-5 key terms)

Respond ONLY in JSON format: {"theme": "...", "sentiment": "...", "urgency": "...", "value": "...", "summary": "...", "keywords": "..."}`

func buildClassificationMessages(record *domain.RawFeedback) []domain.PromptMessage {
	return []domain.PromptMessage{
		{
			Role:    domain.RoleSystem,
			Content: classificationSystemPrompt,
		},
		{
			Role: domain.RoleUser,
			Content: fmt.Sprintf(
				"Analyze this feedback:\n\nProduct: %s\nSource: %s\nContent: %s",
				record.ProductArea, record.Source, record.Content,
			),
		},
	}
}
