package httpclient

import (
	"io"
	"net/http"
	"time"
)

// RetryConfig controls the retry middleware.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 behave as 1 (no retries).
	MaxAttempts int
	// Backoff is the delay before the first retry; it doubles per attempt.
	Backoff time.Duration
}

// Retry returns a middleware that retries idempotent requests on transport
// errors and 5xx responses, with doubling backoff between attempts. Only
// GET and HEAD are retried; anything else passes through untouched. The
// user-facing manual retry remains the primary recovery path — this only
// smooths transient blips.
func Retry(cfg RetryConfig) Middleware {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 100 * time.Millisecond
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next.RoundTrip(req)
			}

			var (
				resp *http.Response
				err  error
			)
			backoff := cfg.Backoff
			for attempt := 1; ; attempt++ {
				resp, err = next.RoundTrip(req)
				if !shouldRetry(resp, err) || attempt >= cfg.MaxAttempts {
					return resp, err
				}
				if resp != nil {
					// Drain so the connection can be reused.
					_, _ = io.Copy(io.Discard, resp.Body)
					_ = resp.Body.Close()
				}

				select {
				case <-req.Context().Done():
					return nil, req.Context().Err()
				case <-time.After(backoff):
				}
				backoff *= 2
			}
		})
	}
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}
