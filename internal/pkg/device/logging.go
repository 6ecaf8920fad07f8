package device

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.next.RoundTrip(r)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("device request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.logger.Debug("device request", append(fields, zap.Int("status", res.StatusCode))...)
	return res, nil
}
