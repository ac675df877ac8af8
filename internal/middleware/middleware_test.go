package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGeneratesAndPreserves(t *testing.T) {
	var seen string
	var logged bytes.Buffer
	handler := RequestID(zerolog.New(&logged))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside")
	}))

	t.Run("generates id when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
		assert.Contains(t, logged.String(), `"request_id":"`+seen+`"`)
	})

	t.Run("preserves existing id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "test-id-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "test-id-123", seen)
	})
}

func TestLoggerRecordsStatusAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	handler := Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		f.Flush()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))

	assert.True(t, rec.Flushed)
	assert.Contains(t, buf.String(), `"status":201`)
	assert.Contains(t, buf.String(), `"path":"/orders"`)
	assert.Contains(t, buf.String(), `"bytes":2`)
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "buckets are per client")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("a"), "tokens refill over time")

	now = now.Add(10 * time.Minute)
	l.Allow("c")
	assert.NotContains(t, l.visitors, "b", "idle visitors are evicted")
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(NewIPRateLimiter(1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/completion", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/completion", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, second.Body.String())
}

func TestOperatorTokenRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := SignOperatorToken("secret", time.Hour, now)
	require.NoError(t, err)

	claims, err := VerifyOperatorToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)

	_, err = VerifyOperatorToken("other", token)
	assert.Error(t, err)

	expired, err := SignOperatorToken("secret", time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = VerifyOperatorToken("secret", expired)
	assert.Error(t, err)

	_, err = SignOperatorToken("", time.Hour, now)
	assert.Error(t, err)
}

func TestRequireOperator(t *testing.T) {
	token, err := SignOperatorToken("secret", time.Hour, time.Now())
	require.NoError(t, err)
	protected := RequireOperator("secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{name: "missing token", setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		{name: "bad token", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusNoContent},
		{name: "cookie", setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: OperatorCookie, Value: token}) }, status: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireOperatorFallbackHandler(t *testing.T) {
	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("login form"))
	})
	protected := RequireOperator("secret", login)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/enterprise", nil))
	assert.Equal(t, "login form", rec.Body.String())
}
