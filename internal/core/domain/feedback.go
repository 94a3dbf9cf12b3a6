package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

type Value string

const (
	ValueLow    Value = "low"
	ValueMedium Value = "medium"
	ValueHigh   Value = "high"
)

// ThemeUnclassified is the defined default when no theme could be determined.
const ThemeUnclassified = "unclassified"

const (
	SummaryMaxChars = 200
	KeywordsMax     = 5
)

// RawFeedback is an immutable user-submitted feedback record. It is created
// by ingestion or seeding and never mutated afterwards.
type RawFeedback struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	UserType    string    `json:"user_type"`
	Country     string    `json:"country"`
	ProductArea string    `json:"product_area"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Classification is the structured analysis of one feedback record.
// A persisted classification always has every field populated; Normalize
// enforces that.
type Classification struct {
	Theme     string    `json:"theme"`
	Sentiment Sentiment `json:"sentiment"`
	Urgency   Urgency   `json:"urgency"`
	Value     Value     `json:"value"`
	Summary   string    `json:"summary"`
	Keywords  []string  `json:"keywords"`
}

// Normalize replaces absent fields with their defined defaults and clamps
// summary and keywords to their limits. content is the raw feedback text the
// classification was derived from; it backs the default summary.
func (c *Classification) Normalize(content string) {
	if c.Theme == "" {
		c.Theme = ThemeUnclassified
	}
	if c.Sentiment == "" {
		c.Sentiment = SentimentNeutral
	}
	if c.Urgency == "" {
		c.Urgency = UrgencyMedium
	}
	if c.Value == "" {
		c.Value = ValueMedium
	}
	if c.Summary == "" {
		c.Summary = content
	}
	c.Summary = TruncateSummary(c.Summary)
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if len(c.Keywords) > KeywordsMax {
		c.Keywords = c.Keywords[:KeywordsMax]
	}
}

func TruncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= SummaryMaxChars {
		return s
	}
	return string(runes[:SummaryMaxChars])
}

// EnrichedFeedback pairs a raw feedback id with its classification. It is
// created or fully replaced on each enrichment run; there is no merge.
type EnrichedFeedback struct {
	ID             string `json:"id"`
	Classification `json:"classification"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// BatchItemResult reports the outcome of one record within a batch run.
type BatchItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BatchReport struct {
	Processed int               `json:"processed"`
	Results   []BatchItemResult `json:"results"`
}

// AdviceItem is a single advisory recommendation for the product team.
type AdviceItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
