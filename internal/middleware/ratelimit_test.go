package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func requestForTenant(tenantID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	ctx := context.WithValue(req.Context(), TenantIDKey, tenantID)
	return req.WithContext(ctx)
}

func TestRateLimitKeysByTenant(t *testing.T) {
	handler := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestForTenant("tenant-a"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Second request from the same tenant inside the window is rejected
	// with the shared error payload shape.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestForTenant("tenant-a"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded","retry_after":60}`, rec.Body.String())

	// A different tenant has its own budget.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestForTenant("tenant-b"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTurnRateLimitKeysByUser(t *testing.T) {
	handler := TurnRateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	forUser := func(userID string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/x/turns", nil)
		ctx := context.WithValue(req.Context(), UserIDKey, userID)
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, forUser("user-1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, forUser("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, forUser("user-2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
