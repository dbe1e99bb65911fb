package generation

import (
	"context"

	"github.com/uigenlabs/uigen-backend/internal/entity"
)

type GenerationUsecase interface {
	ValidateRequest(req *entity.GenerateRequest) error
	Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error)
	Regenerate(ctx context.Context, id string) (*entity.Generation, error)
	Get(ctx context.Context, id string) (*entity.Generation, error)
	GetCode(ctx context.Context, id string) (string, error)
	List(ctx context.Context, page, pageSize int) (*entity.GenerationPage, error)
	Delete(ctx context.Context, id string) error
}

type CallbackConnector interface {
	SendGeneration(ctx context.Context, callbackURL string, requestID string, data *entity.GenerateResponse)
	SendError(ctx context.Context, callbackURL string, requestID string, message string, details map[string]any)
}
