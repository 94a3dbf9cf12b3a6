package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

// ProcessBatch selects up to limit unprocessed records and enriches them one
// by one. A failing record is reported in its item result and never aborts
// the rest of the batch.
func (uc *EnrichFeedbackUseCase) ProcessBatch(ctx context.Context, limit int) (*domain.BatchReport, error) {
	if limit <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process batch", errors.New("limit must be positive"))
	}

	records, err := uc.repo.FindUnprocessed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed feedback: %w", err)
	}

	results := make([]domain.BatchItemResult, 0, len(records))
	for i := range records {
		record := records[i]
		if _, err := uc.Enrich(ctx, &record); err != nil {
			results = append(results, domain.BatchItemResult{ID: record.ID, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, domain.BatchItemResult{ID: record.ID, Success: true})
	}

	return &domain.BatchReport{
		Processed: len(results),
		Results:   results,
	}, nil
}

// ProcessOne enriches the record with the given id, failing with a not-found
// kind when no raw feedback exists for it.
func (uc *EnrichFeedbackUseCase) ProcessOne(ctx context.Context, feedbackID string) (*domain.EnrichedFeedback, error) {
	record, err := uc.repo.FindByID(ctx, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("fetch raw feedback: %w", err)
	}
	return uc.Enrich(ctx, record)
}
