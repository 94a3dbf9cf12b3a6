package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/feedback-insights/internal/core/ports"
)

const defaultSeedCount = 2000

// SeedFeedbackUseCase inserts synthetic raw feedback and announces each new
// id on the queue so workers pick it up for enrichment. Insertion is
// idempotent on id, so re-seeding replaces rather than duplicates.
type SeedFeedbackUseCase struct {
	repo      ports.FeedbackRepository
	queue     ports.MessageQueue
	generator ports.FeedbackGenerator
	logger    *slog.Logger
}

func NewSeedFeedbackUseCase(
	repo ports.FeedbackRepository,
	queue ports.MessageQueue,
	generator ports.FeedbackGenerator,
	logger *slog.Logger,
) *SeedFeedbackUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedFeedbackUseCase{
		repo:      repo,
		queue:     queue,
		generator: generator,
		logger:    logger,
	}
}

func (uc *SeedFeedbackUseCase) Seed(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		count = defaultSeedCount
	}

	records := uc.generator.Generate(count)
	inserted, err := uc.repo.InsertRaw(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("insert raw feedback: %w", err)
	}

	// Queue publishes are a nudge for async workers; the synchronous process
	// endpoint still sweeps anything that was never announced.
	for _, record := range records {
		if err := uc.queue.PublishFeedbackReceived(ctx, record.ID); err != nil {
			uc.logger.Warn("publish feedback id failed", "feedback_id", record.ID, "error", err)
			break
		}
	}

	return inserted, nil
}
