package openai

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/entity"
)

// MockConnector is a canned-response AI connector for local development
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

const mockCompletion = "Here is the requested UI:\n\n```html\n" + `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Mock Screen</title>
  <style>
    body { font-family: sans-serif; margin: 0; display: grid; place-items: center; min-height: 100vh; }
    .card { padding: 2rem; border: 1px solid #ddd; border-radius: 8px; max-width: 24rem; }
    button { padding: 0.5rem 1rem; border: 0; border-radius: 4px; background: #2563eb; color: #fff; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Mock Screen</h1>
    <p>Generated by the mock connector. Set ENABLE_MOCKS=false to call the real API.</p>
    <button>Get started</button>
  </div>
</body>
</html>` + "\n```\n"

// Complete returns a fixed HTML snippet
func (m *MockConnector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, entity.Usage, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion",
		zap.Int("system_prompt_bytes", len(systemPrompt)),
		zap.Int("user_prompt_bytes", len(userPrompt)),
	)

	usage := entity.Usage{
		PromptTokens:     len(userPrompt) / 4,
		CompletionTokens: len(mockCompletion) / 4,
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	return mockCompletion, usage, nil
}

// CountTokens uses a rough 4-bytes-per-token estimate
func (m *MockConnector) CountTokens(text string) (int, error) {
	return len(text) / 4, nil
}
