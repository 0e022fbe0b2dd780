// Package transport provides the process-wide HTTP transport shared by every service binding.
package transport

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"resty.dev/v3"

	"binapi/pkg/core"
)

const (
	dialTimeout           = 30 * time.Second
	idleConnTimeout       = 90 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second
	pingTimeout           = 15 * time.Second
)

// Limits are the connection bounds applied by the shared transport.
type Limits struct {
	MaxRequests        int
	MaxRequestsPerHost int
	PingInterval       time.Duration
}

// Shared owns the pooled HTTP machinery. It is built once, is safe for
// concurrent use and is never mutated after construction; authenticated
// clients are derived from it with Derive.
type Shared struct {
	httpClient *http.Client
	transport  *http.Transport
	client     *resty.Client
	limits     Limits
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewShared builds the shared transport from config.
// Concurrency is capped in total by MaxRequests and per host by
// MaxRequestsPerHost; PingInterval drives TCP keep-alive and HTTP/2 PING frames.
func NewShared(config *core.Config, logger zerolog.Logger) (*Shared, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	limits := Limits{
		MaxRequests:        config.MaxRequests,
		MaxRequestsPerHost: config.MaxRequestsPerHost,
		PingInterval:       config.PingInterval,
	}

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: limits.PingInterval,
	}

	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          limits.MaxRequests,
		MaxIdleConnsPerHost:   limits.MaxRequestsPerHost,
		MaxConnsPerHost:       limits.MaxRequestsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
	}

	if limits.PingInterval > 0 {
		h2, err := http2.ConfigureTransports(t)
		if err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
		h2.ReadIdleTimeout = limits.PingInterval
		h2.PingTimeout = pingTimeout
	}

	httpClient := &http.Client{
		Transport: newLimitedTransport(t, int64(limits.MaxRequests)),
	}

	s := &Shared{
		httpClient: httpClient,
		transport:  t,
		limits:     limits,
		timeout:    config.Timeout,
		logger:     logger,
	}
	s.client = s.newClient()

	return s, nil
}

// Client returns the shared, undecorated resty client.
func (s *Shared) Client() *resty.Client {
	return s.client
}

// HTTPClient returns the pooled net/http client every derived client uses.
func (s *Shared) HTTPClient() *http.Client {
	return s.httpClient
}

// Limits returns the connection bounds of the shared pool.
func (s *Shared) Limits() Limits {
	return s.limits
}

// Derive returns a new resty client that reuses the shared connection pool
// and limits, with the given middlewares run before each request is prepared.
// The shared client is left untouched.
func (s *Shared) Derive(middlewares ...resty.RequestMiddleware) *resty.Client {
	c := s.newClient()
	for _, m := range middlewares {
		c.AddRequestMiddleware(m)
	}
	return c
}

// Close releases idle connections held by the pool.
func (s *Shared) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

func (s *Shared) newClient() *resty.Client {
	client := resty.NewWithClient(s.httpClient)
	client.SetTimeout(s.timeout)
	client.SetLogger(restyLogger{logger: s.logger})
	client.SetResponseBodyUnlimitedReads(true)
	client.AddContentTypeEncoder("application/json", func(w io.Writer, v any) error {
		data, err := sonic.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	client.AddContentTypeDecoder("application/json", func(r io.Reader, v any) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return sonic.Unmarshal(data, v)
	})

	logger := s.logger
	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Dur("duration", resp.Duration()).
			Msg("http response")
		return nil
	})

	return client
}

type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}
