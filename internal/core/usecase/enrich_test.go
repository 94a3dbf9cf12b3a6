package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

type enrichRepoFake struct {
	records        map[string]domain.RawFeedback
	unprocessed    []domain.RawFeedback
	findErr        error
	unprocessedErr error
	upsertErr      map[string]error
	upserted       []domain.EnrichedFeedback
}

func (f *enrichRepoFake) InsertRaw(_ context.Context, records []domain.RawFeedback) (int, error) {
	return len(records), nil
}

func (f *enrichRepoFake) FindByID(_ context.Context, id string) (*domain.RawFeedback, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	record, ok := f.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrFeedbackNotFound, "find raw feedback", errors.New(id))
	}
	return &record, nil
}

func (f *enrichRepoFake) FindUnprocessed(context.Context, int) ([]domain.RawFeedback, error) {
	if f.unprocessedErr != nil {
		return nil, f.unprocessedErr
	}
	return f.unprocessed, nil
}

func (f *enrichRepoFake) UpsertEnriched(_ context.Context, enriched *domain.EnrichedFeedback) error {
	if err := f.upsertErr[enriched.ID]; err != nil {
		return err
	}
	f.upserted = append(f.upserted, *enriched)
	return nil
}

func (f *enrichRepoFake) GetEnrichedByID(context.Context, string) (*domain.EnrichedFeedback, error) {
	return nil, nil
}

type providerFake struct {
	raw   json.RawMessage
	err   error
	calls int
}

func (f *providerFake) Invoke(context.Context, []domain.PromptMessage, int) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type archiveFake struct {
	err      error
	archived []string
}

func (f *archiveFake) ArchiveRaw(_ context.Context, record *domain.RawFeedback) error {
	if f.err != nil {
		return f.err
	}
	f.archived = append(f.archived, record.ID)
	return nil
}

func newEnrichUC(repo *enrichRepoFake, provider *providerFake, archive *archiveFake) *EnrichFeedbackUseCase {
	uc := NewEnrichFeedbackUseCase(repo, provider, archive, nil, time.Second, 300)
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return uc
}

func TestEnrichUsesModelClassification(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{
		raw: json.RawMessage(`{"response":"{\"theme\":\"Bug Reports\",\"sentiment\":\"negative\",\"urgency\":\"high\",\"value\":\"high\",\"summary\":\"deploys break\",\"keywords\":[\"deploy\"]}"}`),
	}
	archive := &archiveFake{}
	uc := newEnrichUC(repo, provider, archive)

	record := &domain.RawFeedback{ID: "fb_00001", Content: "Deploy breaks constantly"}
	enriched, err := uc.Enrich(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enriched.Theme != "Bug Reports" || enriched.Sentiment != domain.SentimentNegative {
		t.Errorf("unexpected classification: %+v", enriched.Classification)
	}
	if enriched.Value != domain.ValueHigh {
		t.Errorf("value = %q", enriched.Value)
	}
	if enriched.FallbackReason != "" {
		t.Errorf("fallback reason must be empty on the model path, got %q", enriched.FallbackReason)
	}
	if !enriched.ProcessedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("processed_at = %v", enriched.ProcessedAt)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.upserted))
	}
	if want := []string{"fb_00001"}; !reflect.DeepEqual(archive.archived, want) {
		t.Errorf("archived = %v, want %v", archive.archived, want)
	}
}

func TestEnrichAppliesDefaultsToPartialModelOutput(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{raw: json.RawMessage(`"{\"theme\":\"Feature Requests\"}"`)}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	record := &domain.RawFeedback{ID: "fb_00002", Content: "Please add exports"}
	enriched, err := uc.Enrich(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enriched.Theme != "Feature Requests" {
		t.Errorf("theme = %q", enriched.Theme)
	}
	if enriched.Sentiment != domain.SentimentNeutral {
		t.Errorf("sentiment default = %q", enriched.Sentiment)
	}
	if enriched.Urgency != domain.UrgencyMedium {
		t.Errorf("urgency default = %q", enriched.Urgency)
	}
	if enriched.Value != domain.ValueMedium {
		t.Errorf("value default = %q", enriched.Value)
	}
	if enriched.Summary != "Please add exports" {
		t.Errorf("summary default = %q", enriched.Summary)
	}
	if enriched.Keywords == nil || len(enriched.Keywords) != 0 {
		t.Errorf("keywords default = %#v", enriched.Keywords)
	}
}

func TestEnrichFallsBackOnProviderError(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{err: errors.New("connection refused")}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	record := &domain.RawFeedback{ID: "fb_00003", Content: "Deployment failed with an unclear error message in Workers."}
	enriched, err := uc.Enrich(context.Background(), record)
	if err != nil {
		t.Fatalf("enrichment must absorb provider failures, got %v", err)
	}

	if enriched.FallbackReason != FallbackProviderError {
		t.Errorf("fallback reason = %q, want %q", enriched.FallbackReason, FallbackProviderError)
	}
	if enriched.Theme != "Bug Reports" {
		t.Errorf("theme = %q", enriched.Theme)
	}
	if enriched.Value != domain.ValueMedium {
		t.Errorf("fallback value = %q", enriched.Value)
	}
	if enriched.Summary != record.Content {
		t.Errorf("summary = %q", enriched.Summary)
	}
	want := []string{"deployment", "failed", "unclear", "error", "message"}
	if !reflect.DeepEqual(enriched.Keywords, want) {
		t.Errorf("keywords = %v, want %v", enriched.Keywords, want)
	}
}

func TestEnrichFallbackReasonQuota(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{err: domain.WrapError(domain.ErrProviderQuota, "invoke model", errors.New("429"))}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	enriched, err := uc.Enrich(context.Background(), &domain.RawFeedback{ID: "fb_00004", Content: "slow dashboard"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enriched.FallbackReason != FallbackProviderQuota {
		t.Errorf("fallback reason = %q, want %q", enriched.FallbackReason, FallbackProviderQuota)
	}
	if enriched.Theme != "Performance Issues" {
		t.Errorf("theme = %q", enriched.Theme)
	}
}

func TestEnrichFallbackReasonUnparsable(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{raw: json.RawMessage(`"I cannot classify this feedback."`)}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	enriched, err := uc.Enrich(context.Background(), &domain.RawFeedback{ID: "fb_00005", Content: "the docs are confusing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enriched.FallbackReason != FallbackUnparsable {
		t.Errorf("fallback reason = %q, want %q", enriched.FallbackReason, FallbackUnparsable)
	}
	if enriched.Theme != "Documentation Requests" {
		t.Errorf("theme = %q", enriched.Theme)
	}
}

func TestEnrichTruncatesLongSummary(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{err: errors.New("unreachable")}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	content := strings.Repeat("x", 450)
	enriched, err := uc.Enrich(context.Background(), &domain.RawFeedback{ID: "fb_00006", Content: content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched.Summary) != domain.SummaryMaxChars {
		t.Errorf("summary length = %d, want %d", len(enriched.Summary), domain.SummaryMaxChars)
	}
}

func TestEnrichUpsertFailureIsFatal(t *testing.T) {
	repo := &enrichRepoFake{upsertErr: map[string]error{"fb_00007": errors.New("db down")}}
	provider := &providerFake{err: errors.New("unreachable")}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	if _, err := uc.Enrich(context.Background(), &domain.RawFeedback{ID: "fb_00007", Content: "c"}); err == nil {
		t.Fatal("expected error when persistence fails")
	}
}

func TestEnrichArchiveFailureIsSwallowed(t *testing.T) {
	repo := &enrichRepoFake{}
	provider := &providerFake{err: errors.New("unreachable")}
	archive := &archiveFake{err: errors.New("disk full")}
	uc := newEnrichUC(repo, provider, archive)

	if _, err := uc.Enrich(context.Background(), &domain.RawFeedback{ID: "fb_00008", Content: "c"}); err != nil {
		t.Fatalf("archive failure must not fail enrichment: %v", err)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected the enriched row to be stored, got %d", len(repo.upserted))
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	repo := &enrichRepoFake{records: map[string]domain.RawFeedback{
		"fb_00009": {ID: "fb_00009", Content: "billing is confusing"},
	}}
	provider := &providerFake{err: errors.New("unreachable")}
	uc := newEnrichUC(repo, provider, &archiveFake{})

	first, err := uc.ProcessOne(context.Background(), "fb_00009")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := uc.ProcessOne(context.Background(), "fb_00009")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running produced a different result:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(repo.upserted) != 2 {
		t.Fatalf("expected two upserts of the same row, got %d", len(repo.upserted))
	}
}
