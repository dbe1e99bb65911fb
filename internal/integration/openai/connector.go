package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/pkoukk/tiktoken-go"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/entity"
	pkghttp "github.com/uigenlabs/uigen-backend/pkg/http"
)

// fallback encoding when tiktoken does not know the configured model
const fallbackEncoding = "cl100k_base"

// Connector talks to an OpenAI-compatible chat completion API
type Connector struct {
	client *openaigo.Client
	config config.OpenAIConfig
	logger *zap.Logger
}

func NewConnector(cfg config.OpenAIConfig, logger *zap.Logger) *Connector {
	clientCfg := openaigo.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	// The SDK accepts a custom client; reuse the shared transport stack so
	// outbound calls get the same timeouts and debug logging as everything else.
	clientCfg.HTTPClient = pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
	)

	return &Connector{
		client: openaigo.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger,
	}
}

// Complete sends a system+user message pair and returns the first choice
func (c *Connector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, entity.Usage, error) {
	usage := entity.Usage{}

	if strings.TrimSpace(userPrompt) == "" {
		return "", usage, fmt.Errorf("%w: user prompt", entity.ErrPromptEmpty)
	}

	start := time.Now()
	ctxzap.Info(ctx, "sending chat completion request",
		zap.String("model", c.config.Model),
		zap.Int("system_prompt_bytes", len(systemPrompt)),
		zap.Int("user_prompt_bytes", len(userPrompt)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openaigo.ChatCompletionMessage{
			{
				Role:    openaigo.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openaigo.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxCompletionTokens,
	})

	duration := time.Since(start)

	if err != nil {
		ctxzap.Error(ctx, "chat completion failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", usage, classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		ctxzap.Error(ctx, "chat completion returned no content", zap.Duration("duration", duration))
		return "", usage, entity.ErrEmptyCompletion
	}

	usage.PromptTokens = resp.Usage.PromptTokens
	usage.CompletionTokens = resp.Usage.CompletionTokens
	usage.TotalTokens = resp.Usage.TotalTokens

	ctxzap.Info(ctx, "chat completion received",
		zap.Duration("duration", duration),
		zap.Int("content_bytes", len(resp.Choices[0].Message.Content)),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, usage, nil
}

// CountTokens estimates how many tokens text costs for the configured model.
// Used to reject over-budget prompts before spending an upstream call.
func (c *Connector) CountTokens(text string) (int, error) {
	tke, err := tiktoken.EncodingForModel(c.config.Model)
	if err != nil {
		tke, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return len(tke.Encode(text, nil, nil)), nil
}

// classifyError maps SDK errors onto domain errors so the usecase's retry
// policy and the handler's status mapping can use errors.Is.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", entity.ErrUpstreamThrottle, err)
		}
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 {
			// Bad API key, unknown model and the like; retrying will not help
			return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
	}

	return fmt.Errorf("%w: %v", entity.ErrUpstreamFailed, err)
}
