package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/entity"
	pkgRetry "github.com/uigenlabs/uigen-backend/internal/pkg/retry"
)

func testConnector() *Connector {
	cfg := config.CallbackConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: time.Millisecond,
		},
	}
	return NewConnector(cfg, zap.NewNop())
}

func TestSendGeneration(t *testing.T) {
	var gotRequestID string
	var gotEvent entity.CallbackEvent

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conn := testConnector()
	conn.SendGeneration(context.Background(), srv.URL, "req-42", &entity.GenerateResponse{
		ID:   "gen-1",
		Code: "<div></div>",
	})

	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, entity.CallbackEventTypeGeneration, gotEvent.Event)
	assert.NotEmpty(t, gotEvent.Timestamp)

	payload, err := json.Marshal(gotEvent.Data)
	require.NoError(t, err)
	var resp entity.GenerateResponse
	require.NoError(t, json.Unmarshal(payload, &resp))
	assert.Equal(t, "gen-1", resp.ID)
}

func TestSendErrorRetriesUntilDelivered(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conn := testConnector()
	conn.SendError(context.Background(), srv.URL, "req-43", "generation failed", map[string]any{"error": "boom"})

	assert.Equal(t, int32(3), calls.Load())
}
