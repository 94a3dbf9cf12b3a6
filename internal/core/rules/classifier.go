// Package rules implements the deterministic fallback classifier. Every
// function is pure and total over any string input, including empty text.
package rules

import (
	"sort"
	"strings"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

type themeRule struct {
	markers []string
	label   string
}

// Ordered: the first matching rule wins.
var themeRules = []themeRule{
	{[]string{"documentation", "docs", "guide"}, "Documentation Requests"},
	{[]string{"bug", "error", "broken", "fail"}, "Bug Reports"},
	{[]string{"feature", "add", "request"}, "Feature Requests"},
	{[]string{"performance", "slow", "latency"}, "Performance Issues"},
	{[]string{"price", "cost", "billing"}, "Pricing Concerns"},
	{[]string{"integration", "connect", "api"}, "Integration Problems"},
	{[]string{"security", "secure", "auth"}, "Security Questions"},
	{[]string{"migration", "migrate", "move"}, "Migration Support"},
}

const themeDefault = "User Experience"

var positiveWords = []string{"great", "excellent", "love", "amazing", "good", "perfect", "thanks", "helpful"}

var negativeWords = []string{"bad", "terrible", "awful", "hate", "frustrated", "disappointed", "broken", "fail"}

type urgencyRule struct {
	markers []string
	level   domain.Urgency
}

// Checked critical first, then high, then low.
var urgencyRules = []urgencyRule{
	{[]string{"critical", "urgent", "emergency", "down"}, domain.UrgencyCritical},
	{[]string{"important", "asap", "soon"}, domain.UrgencyHigh},
	{[]string{"minor", "low priority", "nice to have"}, domain.UrgencyLow},
}

var stopWords = map[string]struct{}{
	"this": {},
	"that": {},
	"with": {},
	"from": {},
	"have": {},
	"been": {},
	"will": {},
	"would": {},
}

// Classify maps feedback text to theme, sentiment, urgency and keywords.
// The value dimension is not derivable from content alone; callers assign it.
func Classify(content string) domain.Classification {
	return domain.Classification{
		Theme:     Theme(content),
		Sentiment: Sentiment(content),
		Urgency:   Urgency(content),
		Keywords:  Keywords(content),
	}
}

func Theme(content string) string {
	lower := strings.ToLower(content)
	for _, rule := range themeRules {
		if containsAny(lower, rule.markers) {
			return rule.label
		}
	}
	return themeDefault
}

// Sentiment counts how many words of each fixed vocabulary occur in the text
// and ties break to neutral.
func Sentiment(content string) domain.Sentiment {
	lower := strings.ToLower(content)
	positive := countMatches(lower, positiveWords)
	negative := countMatches(lower, negativeWords)
	switch {
	case negative > positive:
		return domain.SentimentNegative
	case positive > negative:
		return domain.SentimentPositive
	default:
		return domain.SentimentNeutral
	}
}

func Urgency(content string) domain.Urgency {
	lower := strings.ToLower(content)
	for _, rule := range urgencyRules {
		if containsAny(lower, rule.markers) {
			return rule.level
		}
	}
	return domain.UrgencyMedium
}

// Keywords extracts up to five frequent terms: tokens longer than four
// characters that are not stop words, ordered by descending frequency with a
// stable first-seen tie-break.
func Keywords(content string) []string {
	tokens := tokenize(content)

	counts := make(map[string]int, len(tokens))
	var order []string
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > domain.KeywordsMax {
		order = order[:domain.KeywordsMax]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func tokenize(content string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '_':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(content))

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 4 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func containsAny(lower string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func countMatches(lower string, vocabulary []string) int {
	count := 0
	for _, word := range vocabulary {
		if strings.Contains(lower, word) {
			count++
		}
	}
	return count
}
