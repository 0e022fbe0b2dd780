// Package observe provides stock interceptors for request logging and metrics.
package observe

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"binapi/pkg/core"
	"binapi/pkg/service"
)

// LoggingInterceptor writes one structured event per request and per response.
// Bodies are included only when the hook is called verbose.
type LoggingInterceptor struct {
	logger   zerolog.Logger
	requests atomic.Uint64
}

var _ service.Interceptor = (*LoggingInterceptor)(nil)

func NewLoggingInterceptor(logger zerolog.Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

// Requests returns how many requests have been observed.
func (l *LoggingInterceptor) Requests() uint64 {
	return l.requests.Load()
}

func (l *LoggingInterceptor) BeforeRequest(req *core.Request, verbose bool) error {
	n := l.requests.Add(1)

	event := l.logger.Info().
		Uint64("seq", n).
		Str("request_id", req.ID).
		Str("operation", req.Operation.String()).
		Str("method", req.Method).
		Str("path", req.Path).
		Str("security", req.Security.String())
	if verbose {
		event = event.Str("query", req.Query.Values().Encode())
	}
	event.Msg("binance request")

	return nil
}

func (l *LoggingInterceptor) AfterResponse(resp *service.Response, verbose bool) error {
	event := l.logger.Info()
	if !resp.IsSuccess() {
		event = l.logger.Warn()
	}

	event = event.
		Str("request_id", resp.Request.ID).
		Str("operation", resp.Request.Operation.String()).
		Int("status", resp.StatusCode).
		Dur("duration", resp.Duration).
		Int("size", len(resp.Body))
	if weight := resp.Header.Get(HeaderUsedWeight); weight != "" {
		event = event.Str("used_weight", weight)
	}
	if verbose {
		event = event.Bytes("body", resp.Body)
	}
	event.Msg("binance response")

	return nil
}
