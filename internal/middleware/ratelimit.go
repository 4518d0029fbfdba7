package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits requests per tenant across the whole API. Unauthenticated
// requests fall back to the caller's IP.
func RateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(tenantKey),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// TurnRateLimit limits turn processing per user. Turns are the expensive
// path (text generation plus the enrichment fan-out), so they get a
// tighter, per-user budget than the rest of the API.
func TurnRateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(userKey),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func tenantKey(r *http.Request) (string, error) {
	if tenantID := GetTenantID(r.Context()); tenantID != "" {
		return "tenant:" + tenantID, nil
	}
	return "ip:" + r.RemoteAddr, nil
}

func userKey(r *http.Request) (string, error) {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID, nil
	}
	return "ip:" + r.RemoteAddr, nil
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"rate limit exceeded","retry_after":60}`))
}
