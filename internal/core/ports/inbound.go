package ports

import (
	"context"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

// FeedbackEnricher is the inbound contract for single-record and batch
// enrichment.
type FeedbackEnricher interface {
	ProcessOne(ctx context.Context, feedbackID string) (*domain.EnrichedFeedback, error)
	ProcessBatch(ctx context.Context, limit int) (*domain.BatchReport, error)
}

// FeedbackSeeder generates synthetic raw feedback for demo environments.
type FeedbackSeeder interface {
	Seed(ctx context.Context, count int) (int, error)
}

// AdviceService produces strategic recommendations from aggregated feedback
// statistics supplied by the caller.
type AdviceService interface {
	Advise(ctx context.Context, req domain.AdviceRequest) (*domain.AdviceResult, error)
}
