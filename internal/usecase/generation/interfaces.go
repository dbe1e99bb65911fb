package generation

import (
	"context"

	"github.com/uigenlabs/uigen-backend/internal/entity"
)

// AIConnector produces completions for prompt/code generation
type AIConnector interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, entity.Usage, error)
	CountTokens(text string) (int, error)
}
