// Package interpret turns opaque provider responses into plain text and
// structured classifications. Providers disagree on response shape, so text
// extraction tries a fixed priority order of known shapes and never fails;
// structured extraction is strict and fails with a parse kind.
package interpret

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

// ExtractText extracts the generated text from a raw provider response.
// Shapes tried in order: bare JSON string, {"response": ...}, {"text": ...},
// chat-completion {"choices":[{"message":{"content": ...}}]}. Anything else
// degrades to the raw serialized response.
func ExtractText(raw json.RawMessage) string {
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	var responseShape struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &responseShape); err == nil && responseShape.Response != "" {
		return responseShape.Response
	}

	var textShape struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &textShape); err == nil && textShape.Text != "" {
		return textShape.Text
	}

	var chatShape struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &chatShape); err == nil &&
		len(chatShape.Choices) > 0 && chatShape.Choices[0].Message.Content != "" {
		return chatShape.Choices[0].Message.Content
	}

	return strings.TrimSpace(string(raw))
}

// keywordList tolerates both representations models produce: a JSON array of
// terms or a single comma-separated string.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = trimNonEmpty(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*k = trimNonEmpty(strings.Split(joined, ","))
	return nil
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ExtractClassification scans text for the first top-level JSON object
// substring and parses it. Fields the model omitted stay zero-valued; the
// orchestrator applies defaults before persistence.
func ExtractClassification(text string) (domain.Classification, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return domain.Classification{}, domain.WrapError(domain.ErrParse, "extract classification", errNoJSONObject)
	}

	var parsed struct {
		Theme     string      `json:"theme"`
		Sentiment string      `json:"sentiment"`
		Urgency   string      `json:"urgency"`
		Value     string      `json:"value"`
		Summary   string      `json:"summary"`
		Keywords  keywordList `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return domain.Classification{}, domain.WrapError(domain.ErrParse, "extract classification", err)
	}

	return domain.Classification{
		Theme:     parsed.Theme,
		Sentiment: domain.Sentiment(parsed.Sentiment),
		Urgency:   domain.Urgency(parsed.Urgency),
		Value:     domain.Value(parsed.Value),
		Summary:   parsed.Summary,
		Keywords:  parsed.Keywords,
	}, nil
}

var errNoJSONObject = errors.New("no JSON object in model output")
