package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

// maxRetries bounds the transient-error retries per completion call.
const maxRetries = 2

// RetryingClient wraps a Client with bounded exponential backoff on
// transient failures. Content-policy and other permanent failures pass
// through untouched; the caller degrades them to a fallback response.
type RetryingClient struct {
	inner Client
}

// WithRetry wraps a client with retry behavior.
func WithRetry(inner Client) *RetryingClient {
	return &RetryingClient{inner: inner}
}

// Name returns the wrapped provider's name.
func (r *RetryingClient) Name() string {
	return r.inner.Name()
}

// Complete retries transient failures with exponential backoff.
func (r *RetryingClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	var resp *CompletionResponse

	op := func() error {
		var err error
		resp, err = r.inner.Complete(ctx, req)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

// IsTransient reports whether a provider error is worth retrying:
// rate limits, server errors and network timeouts. Content-policy
// rejections are permanent.
func IsTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"timeout", "timed out", "connection reset", "rate limit", "overloaded", "529", "503"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
