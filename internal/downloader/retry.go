package downloader

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// retryPolicy controls how transient HTTP failures are retried.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

var defaultRetryPolicy = retryPolicy{
	maxAttempts: 3,
	baseDelay:   500 * time.Millisecond,
	maxDelay:    8 * time.Second,
}

// retryTransport retries transient failures with exponential backoff and
// jitter. Platform endpoints throttle aggressively, so 429 and 5xx get the
// same treatment as connection-level faults.
type retryTransport struct {
	next   http.RoundTripper
	policy retryPolicy
}

func newRetryTransport(next http.RoundTripper, policy retryPolicy) *retryTransport {
	return &retryTransport{next: next, policy: policy}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= t.policy.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(req.Context(), t.delayFor(attempt)); err != nil {
				if lastResp != nil {
					lastResp.Body.Close()
				}
				return nil, err
			}
		}

		attemptReq := req
		if attempt > 0 {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					if lastResp != nil {
						return lastResp, nil
					}
					return nil, lastErr
				}
				attemptReq.Body = body
			}
		}

		resp, err := t.next.RoundTrip(attemptReq)
		if err != nil {
			if !retryableError(err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if lastResp != nil {
			lastResp.Body.Close()
		}
		lastResp = resp
		lastErr = nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

func (t *retryTransport) delayFor(attempt int) time.Duration {
	delay := float64(t.policy.baseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(t.policy.maxDelay) {
		delay = float64(t.policy.maxDelay)
	}
	jitter := delay * 0.25 * (rand.Float64()*2 - 1) //nolint:gosec
	return time.Duration(delay + jitter)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryableError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
