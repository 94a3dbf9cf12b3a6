package ports

import (
	"context"
	"encoding/json"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

// FeedbackRepository persists raw feedback and idempotently stores enrichment
// results.
type FeedbackRepository interface {
	InsertRaw(ctx context.Context, records []domain.RawFeedback) (int, error)
	FindByID(ctx context.Context, id string) (*domain.RawFeedback, error)
	// FindUnprocessed returns up to limit raw records that have no enriched
	// counterpart, in a stable order.
	FindUnprocessed(ctx context.Context, limit int) ([]domain.RawFeedback, error)
	// UpsertEnriched replaces or inserts the enriched row for its id in one
	// atomic statement.
	UpsertEnriched(ctx context.Context, enriched *domain.EnrichedFeedback) error
	// GetEnrichedByID returns nil, nil when the record has not been enriched
	// yet. The enrichment path itself never reads previous results.
	GetEnrichedByID(ctx context.Context, id string) (*domain.EnrichedFeedback, error)
}

// ClassificationProvider invokes a generative model. The response shape is
// provider-defined and returned opaque; interpretation happens in the core.
// Calls may fail with network, timeout, auth or quota errors.
type ClassificationProvider interface {
	Invoke(ctx context.Context, messages []domain.PromptMessage, maxTokens int) (json.RawMessage, error)
}

// RawArchive stores a best-effort backup copy of a raw record. Failures are
// non-fatal to enrichment.
type RawArchive interface {
	ArchiveRaw(ctx context.Context, record *domain.RawFeedback) error
}

// FeedbackGenerator produces synthetic raw feedback records.
type FeedbackGenerator interface {
	Generate(count int) []domain.RawFeedback
}

// MessageQueue publishes/consumes feedback ids for asynchronous enrichment.
type MessageQueue interface {
	PublishFeedbackReceived(ctx context.Context, feedbackID string) error
	SubscribeFeedbackReceived(ctx context.Context, handler func(context.Context, string) error) error
}
