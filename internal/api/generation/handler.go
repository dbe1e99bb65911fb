package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/entity"
	"github.com/uigenlabs/uigen-backend/internal/pkg/logger"
	"github.com/uigenlabs/uigen-backend/internal/pkg/response"
)

type Handler struct {
	usecase      GenerationUsecase
	callbackConn CallbackConnector
}

func NewHandler(usecase GenerationUsecase, callbackConn CallbackConnector) *Handler {
	return &Handler{
		usecase:      usecase,
		callbackConn: callbackConn,
	}
}

// Generate handles POST /generate - turn a UI description into code.
// Without callback_url the call is synchronous and answers with the code.
// With callback_url it answers 202 and delivers the result to the callback.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Generate")

	var req entity.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctxzap.Info(ctx, "handling generation request",
		zap.String("target", req.Target),
		zap.Int("prompt_chars", len(req.Prompt)),
		zap.Bool("async", req.CallbackURL != ""),
	)

	if req.CallbackURL == "" {
		gen, err := h.usecase.Generate(ctx, &req)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}
		response.Success(w, toGenerateResponse(gen))
		return
	}

	// Bad requests must fail here; once the goroutine owns them the only
	// delivery channel left is the (possibly broken) callback URL.
	if err := h.usecase.ValidateRequest(&req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	requestID := chimiddleware.GetReqID(ctx)

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("request_id", requestID),
			zap.String("action", "Generate-async"),
		)

		gen, err := h.usecase.Generate(bgCtx, &req)
		if err != nil {
			ctxzap.Error(bgCtx, "async generation failed", zap.Error(err))
			h.callbackConn.SendError(bgCtx, req.CallbackURL, requestID, "generation failed", map[string]any{
				"error": err.Error(),
			})
			return
		}

		ctxzap.Info(bgCtx, "async generation finished", zap.String("generation_id", gen.ID))
		h.callbackConn.SendGeneration(bgCtx, req.CallbackURL, requestID, toGenerateResponse(gen))
	}()

	response.Accepted(w, map[string]string{
		"status":  "accepted",
		"message": "generation is being processed",
	})
}

// GetGeneration handles GET /generations/{id}
func (h *Handler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	generationID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("generation_id", generationID),
		zap.String("action", "GetGeneration"),
	)

	gen, err := h.usecase.Get(ctx, generationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toGenerationDTO(gen))
}

// GetGenerationCode handles GET /generations/{id}/code - raw snippet download
func (h *Handler) GetGenerationCode(w http.ResponseWriter, r *http.Request) {
	generationID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("generation_id", generationID),
		zap.String("action", "GetGenerationCode"),
	)

	code, err := h.usecase.GetCode(ctx, generationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Text(w, http.StatusOK, code)
}

// ListGenerations handles GET /generations - paginated history
func (h *Handler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListGenerations")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.usecase.List(ctx, page, pageSize)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toPageDTO(result))
}

// Regenerate handles POST /generations/{id}/regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	generationID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("generation_id", generationID),
		zap.String("action", "Regenerate"),
	)

	gen, err := h.usecase.Regenerate(ctx, generationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toGenerateResponse(gen))
}

// DeleteGeneration handles DELETE /generations/{id}
func (h *Handler) DeleteGeneration(w http.ResponseWriter, r *http.Request) {
	generationID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("generation_id", generationID),
		zap.String("action", "DeleteGeneration"),
	)

	if err := h.usecase.Delete(ctx, generationID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "usecase error", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrGenerationNotFound):
		response.Error(w, http.StatusNotFound, "generation not found")
	case errors.Is(err, entity.ErrPromptEmpty),
		errors.Is(err, entity.ErrPromptTooLong),
		errors.Is(err, entity.ErrPromptTooBig),
		errors.Is(err, entity.ErrUnknownTarget),
		errors.Is(err, entity.ErrInvalidCallback),
		errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrGenerationInProgress),
		errors.Is(err, entity.ErrNoCode):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrUpstreamFailed),
		errors.Is(err, entity.ErrUpstreamThrottle),
		errors.Is(err, entity.ErrEmptyCompletion):
		response.Error(w, http.StatusBadGateway, "code generation service failed")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
