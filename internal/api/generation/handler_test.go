package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uigenlabs/uigen-backend/internal/entity"
)

type stubUsecase struct {
	validateFn   func(req *entity.GenerateRequest) error
	generateFn   func(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error)
	regenerateFn func(ctx context.Context, id string) (*entity.Generation, error)
	getFn        func(ctx context.Context, id string) (*entity.Generation, error)
	getCodeFn    func(ctx context.Context, id string) (string, error)
	listFn       func(ctx context.Context, page, pageSize int) (*entity.GenerationPage, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (s *stubUsecase) ValidateRequest(req *entity.GenerateRequest) error {
	if s.validateFn == nil {
		return nil
	}
	return s.validateFn(req)
}

func (s *stubUsecase) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	return s.generateFn(ctx, req)
}

func (s *stubUsecase) Regenerate(ctx context.Context, id string) (*entity.Generation, error) {
	return s.regenerateFn(ctx, id)
}

func (s *stubUsecase) Get(ctx context.Context, id string) (*entity.Generation, error) {
	return s.getFn(ctx, id)
}

func (s *stubUsecase) GetCode(ctx context.Context, id string) (string, error) {
	return s.getCodeFn(ctx, id)
}

func (s *stubUsecase) List(ctx context.Context, page, pageSize int) (*entity.GenerationPage, error) {
	return s.listFn(ctx, page, pageSize)
}

func (s *stubUsecase) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type recordingCallback struct {
	mu        sync.Mutex
	delivered chan struct{}
	url       string
	data      *entity.GenerateResponse
	errMsg    string
}

func newRecordingCallback() *recordingCallback {
	return &recordingCallback{delivered: make(chan struct{})}
}

func (c *recordingCallback) SendGeneration(_ context.Context, callbackURL, _ string, data *entity.GenerateResponse) {
	c.mu.Lock()
	c.url = callbackURL
	c.data = data
	c.mu.Unlock()
	close(c.delivered)
}

func (c *recordingCallback) SendError(_ context.Context, callbackURL, _, message string, _ map[string]any) {
	c.mu.Lock()
	c.url = callbackURL
	c.errMsg = message
	c.mu.Unlock()
	close(c.delivered)
}

func (c *recordingCallback) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not delivered")
	}
}

func newTestRouter(uc GenerationUsecase, cb CallbackConnector) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, cb))
	return r
}

func completedGeneration(id, code string) *entity.Generation {
	return &entity.Generation{
		ID:     id,
		Prompt: "a login form",
		Target: entity.TargetHTML,
		Model:  "test-model",
		Status: entity.GenerationStatusCompleted,
		Code:   &code,
		Usage:  entity.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	return errResp
}

func TestGenerateHandler(t *testing.T) {
	t.Run("synchronous success", func(t *testing.T) {
		uc := &stubUsecase{
			generateFn: func(_ context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
				assert.Equal(t, "a login form", req.Prompt)
				return completedGeneration("gen-1", "<form></form>"), nil
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{Prompt: "a login form"})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp entity.GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "gen-1", resp.ID)
		assert.Equal(t, "<form></form>", resp.Code)
		assert.Equal(t, "html", resp.Target)
		assert.Equal(t, 15, resp.Usage.TotalTokens)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(&stubUsecase{}, newRecordingCallback())

		req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		uc := &stubUsecase{
			generateFn: func(_ context.Context, _ *entity.GenerateRequest) (*entity.Generation, error) {
				return nil, fmt.Errorf("%w: prompt", entity.ErrPromptEmpty)
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{Prompt: ""})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "prompt")
	})

	t.Run("upstream failure maps to 502 without leaking details", func(t *testing.T) {
		uc := &stubUsecase{
			generateFn: func(_ context.Context, _ *entity.GenerateRequest) (*entity.Generation, error) {
				return nil, fmt.Errorf("%w: secret upstream detail", entity.ErrUpstreamFailed)
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{Prompt: "x"})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		errResp := decodeError(t, rec)
		assert.Equal(t, "code generation service failed", errResp.Message)
		assert.NotContains(t, errResp.Message, "secret")
	})

	t.Run("callback_url switches to async delivery", func(t *testing.T) {
		uc := &stubUsecase{
			generateFn: func(_ context.Context, _ *entity.GenerateRequest) (*entity.Generation, error) {
				return completedGeneration("gen-2", "<nav></nav>"), nil
			},
		}
		cb := newRecordingCallback()
		router := newTestRouter(uc, cb)

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{
			Prompt:      "a navbar",
			CallbackURL: "https://example.com/hook",
		})

		require.Equal(t, http.StatusAccepted, rec.Code)
		cb.wait(t)
		assert.Equal(t, "https://example.com/hook", cb.url)
		require.NotNil(t, cb.data)
		assert.Equal(t, "gen-2", cb.data.ID)
	})

	t.Run("async failure is delivered as an error callback", func(t *testing.T) {
		uc := &stubUsecase{
			generateFn: func(_ context.Context, _ *entity.GenerateRequest) (*entity.Generation, error) {
				return nil, fmt.Errorf("%w: 502", entity.ErrUpstreamFailed)
			},
		}
		cb := newRecordingCallback()
		router := newTestRouter(uc, cb)

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{
			Prompt:      "a footer",
			CallbackURL: "https://example.com/hook",
		})

		require.Equal(t, http.StatusAccepted, rec.Code)
		cb.wait(t)
		assert.Equal(t, "generation failed", cb.errMsg)
		assert.Nil(t, cb.data)
	})

	t.Run("invalid async request is rejected before accepting", func(t *testing.T) {
		var generateCalled atomic.Bool
		uc := &stubUsecase{
			validateFn: func(_ *entity.GenerateRequest) error {
				return fmt.Errorf("%w: prompt", entity.ErrPromptEmpty)
			},
			generateFn: func(_ context.Context, _ *entity.GenerateRequest) (*entity.Generation, error) {
				generateCalled.Store(true)
				return nil, nil
			},
		}
		cb := newRecordingCallback()
		router := newTestRouter(uc, cb)

		rec := doJSON(t, router, http.MethodPost, "/generate", entity.GenerateRequest{
			Prompt:      "",
			CallbackURL: "http://127.0.0.1:9/hook",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, generateCalled.Load(), "bad request must not reach the usecase")
		select {
		case <-cb.delivered:
			t.Fatal("no callback may be attempted for a rejected request")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestGetGenerationHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		uc := &stubUsecase{
			getFn: func(_ context.Context, id string) (*entity.Generation, error) {
				assert.Equal(t, "gen-1", id)
				return completedGeneration("gen-1", "<div></div>"), nil
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodGet, "/generations/gen-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var dto entity.GenerationDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "gen-1", dto.ID)
		assert.Equal(t, "completed", dto.Status)
	})

	t.Run("not found", func(t *testing.T) {
		uc := &stubUsecase{
			getFn: func(_ context.Context, _ string) (*entity.Generation, error) {
				return nil, fmt.Errorf("get generation: %w", entity.ErrGenerationNotFound)
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodGet, "/generations/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetGenerationCodeHandler(t *testing.T) {
	t.Run("returns plain text", func(t *testing.T) {
		uc := &stubUsecase{
			getCodeFn: func(_ context.Context, _ string) (string, error) {
				return "<button>Go</button>", nil
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodGet, "/generations/gen-1/code", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<button>Go</button>", rec.Body.String())
	})

	t.Run("pending maps to 409", func(t *testing.T) {
		uc := &stubUsecase{
			getCodeFn: func(_ context.Context, _ string) (string, error) {
				return "", entity.ErrGenerationInProgress
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodGet, "/generations/gen-1/code", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListGenerationsHandler(t *testing.T) {
	uc := &stubUsecase{
		listFn: func(_ context.Context, page, pageSize int) (*entity.GenerationPage, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, pageSize)
			return &entity.GenerationPage{
				Items:    []*entity.Generation{completedGeneration("gen-9", "<p></p>")},
				Page:     2,
				PageSize: 10,
				Pages:    2,
				Total:    11,
			}, nil
		},
	}
	router := newTestRouter(uc, newRecordingCallback())

	rec := doJSON(t, router, http.MethodGet, "/generations?page=2&page_size=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var pageDTO entity.GenerationPageDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pageDTO))
	assert.Equal(t, 2, pageDTO.Page)
	assert.Equal(t, 11, pageDTO.Total)
	require.Len(t, pageDTO.Items, 1)
	assert.Equal(t, "gen-9", pageDTO.Items[0].ID)
}

func TestRegenerateHandler(t *testing.T) {
	t.Run("pending source maps to 409", func(t *testing.T) {
		uc := &stubUsecase{
			regenerateFn: func(_ context.Context, _ string) (*entity.Generation, error) {
				return nil, entity.ErrGenerationInProgress
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodPost, "/generations/gen-1/regenerate", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		uc := &stubUsecase{
			regenerateFn: func(_ context.Context, id string) (*entity.Generation, error) {
				assert.Equal(t, "gen-1", id)
				return completedGeneration("gen-2", "<div>v2</div>"), nil
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodPost, "/generations/gen-1/regenerate", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp entity.GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "gen-2", resp.ID)
	})
}

func TestDeleteGenerationHandler(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		uc := &stubUsecase{
			deleteFn: func(_ context.Context, id string) error {
				assert.Equal(t, "gen-1", id)
				return nil
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodDelete, "/generations/gen-1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		uc := &stubUsecase{
			deleteFn: func(_ context.Context, _ string) error {
				return fmt.Errorf("delete generation: %w", entity.ErrGenerationNotFound)
			},
		}
		router := newTestRouter(uc, newRecordingCallback())

		rec := doJSON(t, router, http.MethodDelete, "/generations/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
