package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/johnquangdev/meeting-actions/pkg/jobcontext"
)

const (
	extractTemperature = 0.3
	summaryTemperature = 0.5
	summaryMaxTokens   = 500

	defaultModel = "gpt-4-turbo-preview"
)

// ErrNotConfigured is returned when a provider has no API key
var ErrNotConfigured = errors.New("ai provider is not configured")

// LLMClient talks to an OpenAI-compatible chat completion API
type LLMClient struct {
	client     *openai.Client
	model      string
	configured bool
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewLLMClient creates a chat completion client. cfg.BaseURL may point at any
// OpenAI-compatible endpoint.
func NewLLMClient(cfg config.OpenAIConfig, logger *zap.Logger) *LLMClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &LLMClient{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		configured: cfg.APIKey != "",
		logger:     logger,
		newBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 45 * time.Second
	return bo
}

// Model returns the model name requests are sent with
func (c *LLMClient) Model() string {
	return c.model
}

// ExtractActions asks the model for the action items of a transcript and
// returns the raw JSON content of the reply
func (c *LLMClient) ExtractActions(ctx context.Context, title, transcript string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: ExtractPrompt(title, transcript)},
		},
		Temperature: extractTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	return c.complete(ctx, "extract", req)
}

// Summarize asks the model for a short bullet summary of a transcript
func (c *LLMClient) Summarize(ctx context.Context, title, transcript string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: SummaryPrompt(title, transcript)},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	}
	return c.complete(ctx, "summary", req)
}

func (c *LLMClient) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	var content string
	attempt := 0
	call := func() error {
		attempt++
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			err = withStatus(err)
			if !jobcontext.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			if c.logger != nil {
				c.logger.Warn("⚠️ LLM call failed, retrying",
					zap.String("op", op),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%s: empty completion", op))
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	}

	if err := backoff.Retry(call, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return "", fmt.Errorf("llm %s failed: %w", op, err)
	}
	if content == "" {
		return "", fmt.Errorf("llm %s returned no content", op)
	}
	return content, nil
}

// statusError exposes the HTTP status of a provider error for retry decisions
type statusError struct {
	err  error
	code int
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) StatusCode() int { return e.code }

func withStatus(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &statusError{err: err, code: apiErr.HTTPStatusCode}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &statusError{err: err, code: reqErr.HTTPStatusCode}
	}
	return err
}
