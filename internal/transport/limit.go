package transport

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// limitedTransport bounds the number of requests in flight across all hosts.
// A slot is held from RoundTrip until the response body is closed.
type limitedTransport struct {
	base     http.RoundTripper
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

func newLimitedTransport(base http.RoundTripper, maxRequests int64) *limitedTransport {
	return &limitedTransport{
		base: base,
		sem:  semaphore.NewWeighted(maxRequests),
	}
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.sem.Acquire(req.Context(), 1); err != nil {
		return nil, fmt.Errorf("acquire request slot: %w", err)
	}
	t.inFlight.Add(1)

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.Body == nil {
		t.release()
		return resp, err
	}

	resp.Body = &releasingBody{ReadCloser: resp.Body, release: t.release}
	return resp, nil
}

// InFlight returns the number of requests currently holding a slot.
func (t *limitedTransport) InFlight() int64 {
	return t.inFlight.Load()
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the pool.
func (t *limitedTransport) CloseIdleConnections() {
	type closeIdler interface {
		CloseIdleConnections()
	}
	if ci, ok := t.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

func (t *limitedTransport) release() {
	t.inFlight.Add(-1)
	t.sem.Release(1)
}

type releasingBody struct {
	io.ReadCloser
	release func()
	closed  atomic.Bool
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	if b.closed.CompareAndSwap(false, true) {
		b.release()
	}
	return err
}
