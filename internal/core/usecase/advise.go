package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
	"github.com/kirillkom/feedback-insights/internal/core/interpret"
	"github.com/kirillkom/feedback-insights/internal/core/ports"
)

const adviceMaxTokens = 500

const adviceSystemPrompt = "You are a product management assistant. Analyze feedback data and provide actionable recommendations. " +
	"Focus on themes, urgency, value, and sentiment. Provide 3-5 specific, actionable recommendations in a clear format."

// AdviseUseCase turns caller-supplied feedback aggregates into strategic
// recommendations. Like enrichment, it degrades to deterministic advice when
// the provider path is unusable and always returns a usable result.
type AdviseUseCase struct {
	provider ports.ClassificationProvider
	logger   *slog.Logger

	providerTimeout time.Duration
}

func NewAdviseUseCase(provider ports.ClassificationProvider, logger *slog.Logger, providerTimeout time.Duration) *AdviseUseCase {
	if providerTimeout <= 0 {
		providerTimeout = defaultProviderTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviseUseCase{
		provider:        provider,
		logger:          logger,
		providerTimeout: providerTimeout,
	}
}

func (uc *AdviseUseCase) Advise(ctx context.Context, req domain.AdviceRequest) (*domain.AdviceResult, error) {
	summary := newAdviceSummary(req)

	text, err := uc.generateAdvice(ctx, summary.promptContext())
	if err != nil {
		uc.logger.Warn("advisory generation failed, using rule-based advice", "error", err)
		if domain.IsKind(err, domain.ErrProviderQuota) {
			return &domain.AdviceResult{
				Advice:   summary.quotaAdvice(),
				Fallback: true,
				Error:    "AI quota exceeded",
			}, nil
		}
		return &domain.AdviceResult{
			Advice:   genericAdvice(),
			Fallback: true,
			Error:    err.Error(),
		}, nil
	}

	points := interpret.ExtractAdvicePoints(text)
	if len(points) == 0 {
		return &domain.AdviceResult{
			Advice:     summary.structuredAdvice(),
			AIResponse: text,
		}, nil
	}

	advice := make([]domain.AdviceItem, 0, len(points))
	for idx, point := range points {
		advice = append(advice, domain.AdviceItem{
			Title: fmt.Sprintf("Recommendation %d", idx+1),
			Text:  point,
		})
	}
	return &domain.AdviceResult{
		Advice:     advice,
		AIResponse: text,
	}, nil
}

func (uc *AdviseUseCase) generateAdvice(ctx context.Context, promptContext string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()

	messages := []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: adviceSystemPrompt},
		{Role: domain.RoleUser, Content: "Based on this feedback analysis, provide strategic recommendations for the product team:\n\n" + promptContext},
	}
	raw, err := uc.provider.Invoke(callCtx, messages, adviceMaxTokens)
	if err != nil {
		return "", err
	}
	return interpret.ExtractText(raw), nil
}

type adviceSummary struct {
	filters     domain.AdviceFilters
	chart       domain.ChartData
	topTheme    *domain.KeyCount
	topPlatform *domain.KeyCount
	topProduct  *domain.KeyCount
}

func newAdviceSummary(req domain.AdviceRequest) adviceSummary {
	return adviceSummary{
		filters:     req.Filters,
		chart:       req.ChartData,
		topTheme:    firstBucket(req.ChartData.ByTheme),
		topPlatform: maxBucket(req.ChartData.ByPlatform),
		topProduct:  maxBucket(req.ChartData.ByProduct),
	}
}

func (s adviceSummary) promptContext() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feedback Analysis Summary:\n")
	fmt.Fprintf(&b, "- Total feedback count: %d\n", s.chart.TotalCount)
	fmt.Fprintf(&b, "- Top theme: %s (%d occurrences)\n", bucketKey(s.topTheme), bucketCount(s.topTheme))
	fmt.Fprintf(&b, "- Top platform: %s (%d occurrences)\n", bucketKey(s.topPlatform), bucketCount(s.topPlatform))
	fmt.Fprintf(&b, "- Top product: %s (%d occurrences)\n", bucketKey(s.topProduct), bucketCount(s.topProduct))
	fmt.Fprintf(&b, "- Sentiment distribution: %s\n", formatBuckets(s.chart.BySentiment))
	fmt.Fprintf(&b, "- Urgency distribution: %s\n", formatBuckets(s.chart.ByUrgency))
	fmt.Fprintf(&b, "- Value distribution: %s\n", formatBuckets(s.chart.ByValue))
	fmt.Fprintf(&b, "\nCurrent filters:\n")
	fmt.Fprintf(&b, "- Product: %s\n", orAll(s.filters.Product))
	fmt.Fprintf(&b, "- Platform: %s\n", orAll(s.filters.Platform))
	fmt.Fprintf(&b, "- Country: %s\n", orAll(s.filters.Country))
	timeRange := s.filters.TimeRange
	if timeRange == "" {
		timeRange = "30"
	}
	fmt.Fprintf(&b, "- Time Range: %s days\n", timeRange)
	return b.String()
}

// structuredAdvice covers models that answered without a parsable list.
func (s adviceSummary) structuredAdvice() []domain.AdviceItem {
	return []domain.AdviceItem{
		{Title: "Priority Action", Text: s.priorityActionText()},
		{Title: "Platform Focus", Text: s.platformFocusText()},
		{Title: "Product Recommendation", Text: s.productRecommendationText()},
		{
			Title: "Strategic Insight",
			Text:  "Based on sentiment analysis, focus on areas with negative sentiment and replicate success patterns from positive feedback.",
		},
	}
}

func (s adviceSummary) quotaAdvice() []domain.AdviceItem {
	return []domain.AdviceItem{
		{
			Title: "AI Service Limit Reached",
			Text:  "The model provider quota has been reached. Please upgrade your plan or try again later. Using rule-based recommendations instead.",
		},
		{Title: "Priority Action", Text: s.priorityActionText()},
		{Title: "Platform Focus", Text: s.platformFocusText()},
		{Title: "Product Recommendation", Text: s.productRecommendationText()},
	}
}

func genericAdvice() []domain.AdviceItem {
	return []domain.AdviceItem{
		{
			Title: "Data Analysis",
			Text:  "Analyze the feedback patterns and identify common themes across different platforms and products.",
		},
		{
			Title: "Priority Focus",
			Text:  "Focus on high-urgency and high-value feedback items to maximize impact.",
		},
		{
			Title: "Sentiment Monitoring",
			Text:  "Monitor sentiment trends and address negative feedback proactively.",
		},
	}
}

func (s adviceSummary) priorityActionText() string {
	if s.topTheme == nil {
		return "Review top themes and prioritize action items."
	}
	share := 0.0
	if s.chart.TotalCount > 0 {
		share = float64(s.topTheme.Count) / float64(s.chart.TotalCount) * 100
	}
	return fmt.Sprintf(
		"Address %q theme immediately - it represents %.1f%% of all feedback. Consider creating a dedicated task force.",
		s.topTheme.Key, share,
	)
}

func (s adviceSummary) platformFocusText() string {
	if s.topPlatform == nil {
		return "Monitor all feedback channels consistently."
	}
	return fmt.Sprintf(
		"%s is the primary feedback source. Enhance monitoring and response time for this channel.",
		titleCase(s.topPlatform.Key),
	)
}

func (s adviceSummary) productRecommendationText() string {
	if s.topProduct == nil {
		return "Review product feedback distribution and identify improvement areas."
	}
	return fmt.Sprintf(
		"%s shows the highest feedback volume. Review recent changes and consider user education or feature improvements.",
		s.topProduct.Key,
	)
}

func firstBucket(buckets []domain.KeyCount) *domain.KeyCount {
	if len(buckets) == 0 {
		return nil
	}
	return &buckets[0]
}

func maxBucket(buckets []domain.KeyCount) *domain.KeyCount {
	if len(buckets) == 0 {
		return nil
	}
	top := &buckets[0]
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Count > top.Count {
			top = &buckets[i]
		}
	}
	return top
}

func bucketKey(b *domain.KeyCount) string {
	if b == nil {
		return "N/A"
	}
	return b.Key
}

func bucketCount(b *domain.KeyCount) int {
	if b == nil {
		return 0
	}
	return b.Count
}

func formatBuckets(buckets []domain.KeyCount) string {
	parts := make([]string, 0, len(buckets))
	for _, b := range buckets {
		parts = append(parts, fmt.Sprintf("%s=%d", b.Key, b.Count))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func orAll(v string) string {
	if v == "" {
		return "All"
	}
	return v
}

// titleCase converts a channel tag like "community_discord" to
// "Community Discord".
func titleCase(tag string) string {
	words := strings.Split(strings.ReplaceAll(tag, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
