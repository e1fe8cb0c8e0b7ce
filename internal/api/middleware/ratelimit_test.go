package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "rl:/api/auth/login:192.0.2.1"

func okHandler() (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}), &calls
}

func loginRequest() *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
}

func TestRateLimiter_Key(t *testing.T) {
	l := NewRateLimiter(nil, 5, time.Minute)
	assert.Equal(t, testKey, l.Key(loginRequest()))
}

func TestRateLimiter_FirstRequestSetsWindow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr(testKey).SetVal(1)
	mock.ExpectExpire(testKey, time.Minute).SetVal(true)

	next, calls := okHandler()
	rec := httptest.NewRecorder()
	NewRateLimiter(rdb, 5, time.Minute).Middleware(next).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_WithinLimit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr(testKey).SetVal(5)

	next, calls := okHandler()
	rec := httptest.NewRecorder()
	NewRateLimiter(rdb, 5, time.Minute).Middleware(next).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr(testKey).SetVal(6)
	mock.ExpectTTL(testKey).SetVal(42 * time.Second)

	next, calls := okHandler()
	rec := httptest.NewRecorder()
	NewRateLimiter(rdb, 5, time.Minute).Middleware(next).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, *calls)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "RateLimitError")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimitWithoutTTLFallsBackToWindow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr(testKey).SetVal(9)
	mock.ExpectTTL(testKey).SetErr(errors.New("ttl failed"))

	next, _ := okHandler()
	rec := httptest.NewRecorder()
	NewRateLimiter(rdb, 5, 30*time.Second).Middleware(next).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr(testKey).SetErr(errors.New("connection refused"))

	next, calls := okHandler()
	rec := httptest.NewRecorder()
	NewRateLimiter(rdb, 5, time.Minute).Middleware(next).ServeHTTP(rec, loginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Disabled(t *testing.T) {
	next, calls := okHandler()

	var nilLimiter *RateLimiter
	nilLimiter.Middleware(next).ServeHTTP(httptest.NewRecorder(), loginRequest())
	NewRateLimiter(nil, 5, time.Minute).Middleware(next).ServeHTTP(httptest.NewRecorder(), loginRequest())

	assert.Equal(t, 2, *calls)
}
