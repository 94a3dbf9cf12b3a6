package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
	"github.com/kirillkom/feedback-insights/internal/core/interpret"
	"github.com/kirillkom/feedback-insights/internal/core/ports"
	"github.com/kirillkom/feedback-insights/internal/core/rules"
)

const (
	defaultProviderTimeout = 30 * time.Second
	defaultMaxTokens       = 300
)

// Fallback reasons surfaced on enriched records produced without the model.
const (
	FallbackProviderError = "provider_error"
	FallbackProviderQuota = "provider_quota"
	FallbackUnparsable    = "unparsable_output"
)

// EnrichFeedbackUseCase classifies raw feedback, preferring the generative
// provider and falling back to rule-based classification on any provider or
// parse failure. Enrich never propagates a provider error to the caller.
type EnrichFeedbackUseCase struct {
	repo     ports.FeedbackRepository
	provider ports.ClassificationProvider
	archive  ports.RawArchive
	logger   *slog.Logger

	providerTimeout time.Duration
	maxTokens       int
	now             func() time.Time
}

func NewEnrichFeedbackUseCase(
	repo ports.FeedbackRepository,
	provider ports.ClassificationProvider,
	archive ports.RawArchive,
	logger *slog.Logger,
	providerTimeout time.Duration,
	maxTokens int,
) *EnrichFeedbackUseCase {
	if providerTimeout <= 0 {
		providerTimeout = defaultProviderTimeout
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichFeedbackUseCase{
		repo:            repo,
		provider:        provider,
		archive:         archive,
		logger:          logger,
		providerTimeout: providerTimeout,
		maxTokens:       maxTokens,
		now:             time.Now,
	}
}

// Enrich produces and persists a complete classification for one record.
// The upsert fully replaces any previous enriched row for the same id, so
// re-running is safe. The raw archive write is best-effort: its failure is
// logged and discarded.
func (uc *EnrichFeedbackUseCase) Enrich(ctx context.Context, record *domain.RawFeedback) (*domain.EnrichedFeedback, error) {
	classification, fallbackReason := uc.classifyRecord(ctx, record)
	classification.Normalize(record.Content)

	enriched := &domain.EnrichedFeedback{
		ID:             record.ID,
		Classification: classification,
		FallbackReason: fallbackReason,
		ProcessedAt:    uc.now().UTC(),
	}

	if err := uc.repo.UpsertEnriched(ctx, enriched); err != nil {
		return nil, fmt.Errorf("upsert enriched feedback: %w", err)
	}

	if err := uc.archive.ArchiveRaw(ctx, record); err != nil {
		uc.logger.Warn("raw feedback archival failed",
			"feedback_id", record.ID,
			"error", err,
		)
	}

	return enriched, nil
}

func (uc *EnrichFeedbackUseCase) classifyRecord(ctx context.Context, record *domain.RawFeedback) (domain.Classification, string) {
	classification, err := uc.classifyWithProvider(ctx, record)
	if err == nil {
		return classification, ""
	}

	uc.logger.Warn("model classification failed, using rule-based fallback",
		"feedback_id", record.ID,
		"error", err,
	)

	fallback := rules.Classify(record.Content)
	fallback.Value = domain.ValueMedium
	fallback.Summary = domain.TruncateSummary(record.Content)
	return fallback, fallbackReason(err)
}

func (uc *EnrichFeedbackUseCase) classifyWithProvider(ctx context.Context, record *domain.RawFeedback) (domain.Classification, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()

	raw, err := uc.provider.Invoke(callCtx, buildClassificationMessages(record), uc.maxTokens)
	if err != nil {
		if domain.IsKind(err, domain.ErrProvider) || domain.IsKind(err, domain.ErrProviderQuota) {
			return domain.Classification{}, err
		}
		return domain.Classification{}, domain.WrapError(domain.ErrProvider, "invoke classification provider", err)
	}

	return interpret.ExtractClassification(interpret.ExtractText(raw))
}

func fallbackReason(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrProviderQuota):
		return FallbackProviderQuota
	case domain.IsKind(err, domain.ErrParse):
		return FallbackUnparsable
	default:
		return FallbackProviderError
	}
}
