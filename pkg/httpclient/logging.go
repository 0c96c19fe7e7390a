package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs every outgoing request with
// its method, URL, status and latency. The logger is taken from the
// request context via zctx, so request-scoped fields carry through.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			lg := zctx.From(req.Context())
			start := time.Now()

			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.Warn("API request failed",
					zap.String("method", req.Method),
					zap.String("url", req.URL.String()),
					zap.Duration("elapsed", elapsed),
					zap.Error(err),
				)
				return nil, err
			}

			lg.Debug("API request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("elapsed", elapsed),
			)
			return resp, nil
		})
	}
}
