package interpret

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

func TestExtractTextShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"hello world"`, "hello world"},
		{"response field", `{"response":"from workers ai"}`, "from workers ai"},
		{"text field", `{"text":"plain text field"}`, "plain text field"},
		{
			"chat completion",
			`{"choices":[{"message":{"content":"chat content"}}]}`,
			"chat content",
		},
		{"unknown shape degrades to raw", `{"unexpected":42}`, `{"unexpected":42}`},
		{"invalid json degrades to raw", `not json at all`, "not json at all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(json.RawMessage(tt.raw)); got != tt.want {
				t.Fatalf("ExtractText(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractTextPrefersEarlierShape(t *testing.T) {
	raw := json.RawMessage(`{"response":"winner","text":"loser"}`)
	if got := ExtractText(raw); got != "winner" {
		t.Fatalf("expected response field to win, got %q", got)
	}
}

func TestExtractClassification(t *testing.T) {
	text := `Here is the result: {"theme":"Bug Reports","sentiment":"negative","urgency":"high","value":"high","summary":"deploy broken","keywords":["deploy","error"]}`

	cls, err := ExtractClassification(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Theme != "Bug Reports" {
		t.Errorf("theme = %q", cls.Theme)
	}
	if cls.Sentiment != domain.SentimentNegative {
		t.Errorf("sentiment = %q", cls.Sentiment)
	}
	if cls.Urgency != domain.UrgencyHigh {
		t.Errorf("urgency = %q", cls.Urgency)
	}
	if cls.Value != domain.ValueHigh {
		t.Errorf("value = %q", cls.Value)
	}
	if cls.Summary != "deploy broken" {
		t.Errorf("summary = %q", cls.Summary)
	}
	if want := []string{"deploy", "error"}; !reflect.DeepEqual(cls.Keywords, want) {
		t.Errorf("keywords = %v, want %v", cls.Keywords, want)
	}
}

func TestExtractClassificationKeywordsAsString(t *testing.T) {
	cls, err := ExtractClassification(`{"theme":"Feature Requests","keywords":"queue, retry , "}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"queue", "retry"}; !reflect.DeepEqual(cls.Keywords, want) {
		t.Fatalf("keywords = %v, want %v", cls.Keywords, want)
	}
}

func TestExtractClassificationPartialObject(t *testing.T) {
	cls, err := ExtractClassification(`{"theme":"Bug Reports"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Theme != "Bug Reports" {
		t.Errorf("theme = %q", cls.Theme)
	}
	if cls.Sentiment != "" || cls.Urgency != "" || cls.Value != "" || cls.Summary != "" {
		t.Errorf("omitted fields must stay zero-valued: %+v", cls)
	}
}

func TestExtractClassificationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no object", "the model refused to answer"},
		{"unterminated object", `{"theme":"Bug Reports"`},
		{"malformed object", `{"theme": not-json}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractClassification(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !domain.IsKind(err, domain.ErrParse) {
				t.Fatalf("expected parse kind, got %v", err)
			}
		})
	}
}
