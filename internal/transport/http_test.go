package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"binapi/pkg/core"
)

func newTestShared(t *testing.T, config *core.Config) *Shared {
	t.Helper()
	s, err := NewShared(config, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewShared(t *testing.T) {
	s := newTestShared(t, core.DefaultConfig())

	assert.NotNil(t, s.Client())
	assert.Same(t, s.HTTPClient(), s.Client().Client())
	assert.Equal(t, Limits{MaxRequests: 500, MaxRequestsPerHost: 500, PingInterval: 20 * time.Second}, s.Limits())
	assert.Equal(t, 500, s.transport.MaxConnsPerHost)
	assert.Equal(t, 500, s.transport.MaxIdleConnsPerHost)
}

func TestNewShared_InvalidConfig(t *testing.T) {
	_, err := NewShared(nil, zerolog.Nop())
	assert.Error(t, err)

	config := core.DefaultConfig()
	config.MaxRequests = 0
	_, err = NewShared(config, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewShared_WithoutPing(t *testing.T) {
	config := core.DefaultConfig()
	config.PingInterval = 0

	s := newTestShared(t, config)
	assert.Equal(t, time.Duration(0), s.Limits().PingInterval)
}

func TestShared_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v3/ping", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := newTestShared(t, core.DefaultConfig())

	resp, err := s.Client().R().SetContext(context.Background()).Get(server.URL + "/api/v3/ping")

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "{}", string(resp.Bytes()))
}

func TestShared_Derive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen", r.Header.Get("X-Decorated"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestShared(t, core.DefaultConfig())

	derived := s.Derive(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Decorated", "yes")
		return nil
	})

	assert.NotSame(t, s.Client(), derived)
	assert.Same(t, s.HTTPClient(), derived.Client())

	resp, err := derived.R().Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "yes", resp.Header().Get("X-Seen"))

	resp, err = s.Client().R().Get(server.URL)
	require.NoError(t, err)
	assert.Empty(t, resp.Header().Get("X-Seen"))
}

func TestShared_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	s := newTestShared(t, core.DefaultConfig())

	_, err := s.Client().R().Get(url)
	assert.Error(t, err)
}

func TestLimitedTransport_CapsInFlight(t *testing.T) {
	var current, peak atomic.Int64
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		current.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := core.DefaultConfig().WithLimits(2, 2)
	s := newTestShared(t, config)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Client().R().Get(server.URL)
			assert.NoError(t, err)
		}()
	}

	assert.Eventually(t, func() bool { return current.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(2), peak.Load())
	limited := s.HTTPClient().Transport.(*limitedTransport)
	assert.Equal(t, int64(0), limited.InFlight())
}

func TestLimitedTransport_AcquireHonoursContext(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	config := core.DefaultConfig().WithLimits(1, 1)
	s := newTestShared(t, config)

	go func() {
		_, _ = s.Client().R().Get(server.URL)
	}()

	limited := s.HTTPClient().Transport.(*limitedTransport)
	require.Eventually(t, func() bool { return limited.InFlight() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Client().R().SetContext(ctx).Get(server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
