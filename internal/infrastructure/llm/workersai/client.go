// Package workersai is a ClassificationProvider adapter for a Workers-AI
// style HTTP model gateway. The gateway owns the response shape; the client
// hands the body back opaque and the core interprets it.
package workersai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model, token string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type invokeRequest struct {
	Messages  []domain.PromptMessage `json:"messages"`
	MaxTokens int                    `json:"max_tokens"`
}

func (c *Client) Invoke(ctx context.Context, messages []domain.PromptMessage, maxTokens int) (json.RawMessage, error) {
	payload := invokeRequest{
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	var raw json.RawMessage
	call := func(callCtx context.Context) error {
		body, err := c.postRaw(callCtx, "/run/"+c.model, payload)
		if err != nil {
			return err
		}
		raw = body
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "workersai.invoke", call, classifyProviderError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapProviderError("invoke model", err)
	}
	return raw, nil
}

func wrapProviderError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isQuotaError(err) {
		return domain.WrapError(domain.ErrProviderQuota, operation, err)
	}
	return domain.WrapError(domain.ErrProvider, operation, err)
}
