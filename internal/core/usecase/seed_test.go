package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

type generatorFake struct {
	lastCount int
}

func (f *generatorFake) Generate(count int) []domain.RawFeedback {
	f.lastCount = count
	records := make([]domain.RawFeedback, count)
	for i := range records {
		records[i] = domain.RawFeedback{ID: fmt.Sprintf("fb_%05d", i+1), Content: "synthetic"}
	}
	return records
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishFeedbackReceived(_ context.Context, feedbackID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, feedbackID)
	return nil
}

func (f *queueFake) SubscribeFeedbackReceived(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestSeedInsertsAndAnnounces(t *testing.T) {
	repo := &enrichRepoFake{}
	queue := &queueFake{}
	generator := &generatorFake{}
	uc := NewSeedFeedbackUseCase(repo, queue, generator, nil)

	inserted, err := uc.Seed(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}
	if len(queue.published) != 3 {
		t.Errorf("published = %v", queue.published)
	}
	if queue.published[0] != "fb_00001" {
		t.Errorf("first announced id = %q", queue.published[0])
	}
}

func TestSeedDefaultsCount(t *testing.T) {
	generator := &generatorFake{}
	uc := NewSeedFeedbackUseCase(&enrichRepoFake{}, &queueFake{}, generator, nil)

	if _, err := uc.Seed(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generator.lastCount != defaultSeedCount {
		t.Errorf("generated count = %d, want %d", generator.lastCount, defaultSeedCount)
	}
}

func TestSeedPublishFailureIsNonFatal(t *testing.T) {
	queue := &queueFake{publishErr: errors.New("nats down")}
	uc := NewSeedFeedbackUseCase(&enrichRepoFake{}, queue, &generatorFake{}, nil)

	inserted, err := uc.Seed(context.Background(), 2)
	if err != nil {
		t.Fatalf("queue failure must not fail seeding: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
}
