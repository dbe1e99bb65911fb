package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/cache"
	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/entity"
	"github.com/uigenlabs/uigen-backend/internal/pkg/codeblock"
	"github.com/uigenlabs/uigen-backend/internal/pkg/validator"
	"github.com/uigenlabs/uigen-backend/internal/repository"
)

// Usecase implements generation business logic
type Usecase struct {
	repo      repository.GenerationRepository
	cache     *cache.SnippetCache
	ai        AIConnector
	validator *validator.Validator
	aiCfg     config.OpenAIConfig
	logger    *zap.Logger
}

// NewUsecase creates a new generation use case
func NewUsecase(
	repo repository.GenerationRepository,
	snippetCache *cache.SnippetCache,
	ai AIConnector,
	validator *validator.Validator,
	aiCfg config.OpenAIConfig,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		repo:      repo,
		cache:     snippetCache,
		ai:        ai,
		validator: validator,
		aiCfg:     aiCfg,
		logger:    logger,
	}
}

// ValidateRequest checks a request against the configured limits and the
// prompt token budget without running it. Callers that answer before doing
// the work use it to reject bad requests up front.
func (uc *Usecase) ValidateRequest(req *entity.GenerateRequest) error {
	if err := uc.validator.ValidateGenerate(req); err != nil {
		return err
	}

	tokens, err := uc.ai.CountTokens(req.Prompt)
	if err != nil {
		return fmt.Errorf("count prompt tokens: %w", err)
	}
	if tokens > uc.aiCfg.PromptTokenBudget {
		return fmt.Errorf("%w: %d tokens, budget is %d", entity.ErrPromptTooBig, tokens, uc.aiCfg.PromptTokenBudget)
	}

	return nil
}

// Generate validates the request, runs the prompt through the AI connector
// (or the cache) and persists the outcome. Every attempt leaves a history
// row, including failed ones.
func (uc *Usecase) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	if err := uc.ValidateRequest(req); err != nil {
		return nil, err
	}

	target := entity.DefaultTarget
	if req.Target != "" {
		target = entity.Target(req.Target)
	}

	model := uc.aiCfg.Model
	if req.Model != "" {
		model = req.Model
	}

	gen := &entity.Generation{
		ID:     uuid.New().String(),
		Prompt: req.Prompt,
		Target: target,
		Model:  model,
		Status: entity.GenerationStatusPending,
	}

	created, err := uc.repo.Create(ctx, gen)
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}

	return uc.run(ctx, created, false)
}

// Regenerate re-runs an existing generation's prompt, bypassing the cache
func (uc *Usecase) Regenerate(ctx context.Context, id string) (*entity.Generation, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get generation: %w", err)
	}

	if prev.Status == entity.GenerationStatusPending {
		return nil, entity.ErrGenerationInProgress
	}

	gen := &entity.Generation{
		ID:     uuid.New().String(),
		Prompt: prev.Prompt,
		Target: prev.Target,
		Model:  prev.Model,
		Status: entity.GenerationStatusPending,
	}

	created, err := uc.repo.Create(ctx, gen)
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}

	return uc.run(ctx, created, true)
}

// run completes a pending generation: cache lookup, upstream call with
// retry, code extraction and result persistence.
func (uc *Usecase) run(ctx context.Context, gen *entity.Generation, bypassCache bool) (*entity.Generation, error) {
	key := cache.Key(gen.Model, gen.Target, gen.Prompt)

	if bypassCache {
		uc.cache.Delete(key)
	} else if snippet, ok := uc.cache.Get(key); ok {
		ctxzap.Info(ctx, "serving generation from cache", zap.String("generation_id", gen.ID))
		return uc.complete(ctx, gen.ID, snippet.Code, snippet.Usage, true)
	}

	completion, usage, err := uc.callUpstream(ctx, gen)
	if err != nil {
		msg := err.Error()
		if _, uerr := uc.repo.UpdateResult(ctx, gen.ID, entity.GenerationStatusFailed, nil, &msg, entity.Usage{}, false); uerr != nil {
			ctxzap.Error(ctx, "failed to persist failed generation", zap.Error(uerr))
		}
		return nil, err
	}

	code := codeblock.ExtractOrRaw(completion)

	updated, err := uc.complete(ctx, gen.ID, code, usage, false)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(key, cache.Snippet{Code: code, Usage: usage})

	return updated, nil
}

func (uc *Usecase) callUpstream(ctx context.Context, gen *entity.Generation) (string, entity.Usage, error) {
	var completion string
	var usage entity.Usage

	opts := append(uc.aiCfg.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			ctxzap.Warn(ctx, "retrying AI request",
				zap.Uint("attempt", attempt),
				zap.Error(err),
			)
		}),
	)

	err := retry.Do(func() error {
		var callErr error
		completion, usage, callErr = uc.ai.Complete(ctx, systemPrompt(gen.Target), gen.Prompt)
		return callErr
	}, opts...)
	if err != nil {
		return "", usage, err
	}

	return completion, usage, nil
}

// isRetryable keeps retries to transient upstream failures; validation and
// context errors fail fast.
func isRetryable(err error) bool {
	return errors.Is(err, entity.ErrUpstreamFailed) || errors.Is(err, entity.ErrUpstreamThrottle)
}

func (uc *Usecase) complete(ctx context.Context, id, code string, usage entity.Usage, cached bool) (*entity.Generation, error) {
	updated, err := uc.repo.UpdateResult(ctx, id, entity.GenerationStatusCompleted, &code, nil, usage, cached)
	if err != nil {
		return nil, fmt.Errorf("persist generation result: %w", err)
	}
	return updated, nil
}

// Get returns a single generation by ID
func (uc *Usecase) Get(ctx context.Context, id string) (*entity.Generation, error) {
	gen, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get generation: %w", err)
	}
	return gen, nil
}

// GetCode returns the raw code of a completed generation
func (uc *Usecase) GetCode(ctx context.Context, id string) (string, error) {
	gen, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get generation: %w", err)
	}

	switch gen.Status {
	case entity.GenerationStatusPending:
		return "", entity.ErrGenerationInProgress
	case entity.GenerationStatusFailed:
		return "", entity.ErrNoCode
	}

	if gen.Code == nil {
		return "", entity.ErrNoCode
	}

	return *gen.Code, nil
}

// List returns a page of the generation history, newest first. Out-of-range
// pages are clamped to the last page.
func (uc *Usecase) List(ctx context.Context, page, pageSize int) (*entity.GenerationPage, error) {
	page, pageSize = uc.validator.ClampPage(page, pageSize)

	offset := (page - 1) * pageSize
	items, total, err := uc.repo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
		offset = (page - 1) * pageSize
		items, _, err = uc.repo.List(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list generations: %w", err)
		}
	}

	return &entity.GenerationPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
		Total:    total,
	}, nil
}

// Delete removes a generation from history
func (uc *Usecase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete generation: %w", err)
	}
	return nil
}
