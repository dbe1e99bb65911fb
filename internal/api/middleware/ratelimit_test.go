package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uigenlabs/uigen-backend/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doFrom(handler http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{
		PerSecond: 1,
		Burst:     2,
		ClientTTL: time.Minute,
	}

	t.Run("rejects once the burst is spent", func(t *testing.T) {
		handler := NewRateLimiter(cfg).Handler(okHandler())

		assert.Equal(t, http.StatusOK, doFrom(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, doFrom(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "10.0.0.1:1234"))
	})

	t.Run("buckets are per client", func(t *testing.T) {
		handler := NewRateLimiter(cfg).Handler(okHandler())

		assert.Equal(t, http.StatusOK, doFrom(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, doFrom(handler, "10.0.0.1:5678"))
		assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, doFrom(handler, "10.0.0.2:1234"))
	})
}
