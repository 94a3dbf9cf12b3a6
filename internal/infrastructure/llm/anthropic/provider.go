// Package anthropic is a ClassificationProvider adapter backed by the
// Anthropic Messages API, selectable instead of the HTTP model gateway.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

type Provider struct {
	client sdk.Client
	model  string
}

func New(apiKey, model string) *Provider {
	return &Provider{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Invoke sends the prompt and returns the first text block re-encoded as a
// bare JSON string, the simplest shape the interpreter accepts.
func (p *Provider) Invoke(ctx context.Context, messages []domain.PromptMessage, maxTokens int) (json.RawMessage, error) {
	var system []sdk.TextBlockParam
	var turns []sdk.MessageParam
	for _, message := range messages {
		if message.Role == domain.RoleSystem {
			system = append(system, sdk.TextBlockParam{Text: message.Content})
			continue
		}
		turns = append(turns, sdk.NewUserMessage(sdk.NewTextBlock(message.Content)))
	}

	response, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: int64(maxTokens),
		System:    system,
		Messages:  turns,
	})
	if err != nil {
		if isQuotaError(err) {
			return nil, domain.WrapError(domain.ErrProviderQuota, "anthropic messages", err)
		}
		return nil, domain.WrapError(domain.ErrProvider, "anthropic messages", err)
	}

	for _, block := range response.Content {
		if block.Type == "text" {
			raw, err := json.Marshal(block.Text)
			if err != nil {
				return nil, fmt.Errorf("encode anthropic text block: %w", err)
			}
			return raw, nil
		}
	}
	return nil, domain.WrapError(domain.ErrProvider, "anthropic messages", errors.New("no text content in response"))
}

func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "exceeded")
}
