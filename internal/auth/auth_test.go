package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"binapi/pkg/core"
)

func TestSignature(t *testing.T) {
	// Example from the Binance signed endpoint documentation.
	payload := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"

	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", Signature(payload, secret))
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	_, err = New(core.NewCredentials("key", ""))
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	a, err := New(core.NewCredentials("key", "secret"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, a.recvWindow)
}

func TestSecurityContext(t *testing.T) {
	assert.Equal(t, core.SecurityNone, SecurityFrom(context.Background()))

	ctx := WithSecurity(context.Background(), core.SecuritySigned)
	assert.Equal(t, core.SecuritySigned, SecurityFrom(ctx))
}

type captured struct {
	header http.Header
	query  url.Values
}

func newCaptureServer(t *testing.T) (*httptest.Server, chan captured) {
	t.Helper()
	seen := make(chan captured, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- captured{header: r.Header.Clone(), query: r.URL.Query()}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, seen
}

func newSignedClient(t *testing.T) *resty.Client {
	t.Helper()
	fixed := time.UnixMilli(1499827319559)
	a, err := New(core.NewCredentials("my-key", "my-secret"),
		WithRecvWindow(5*time.Second),
		WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	client := resty.New()
	client.AddRequestMiddleware(a.Middleware())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMiddleware_Signed(t *testing.T) {
	server, seen := newCaptureServer(t)
	client := newSignedClient(t)

	ctx := WithSecurity(context.Background(), core.SecuritySigned)
	_, err := client.R().
		SetContext(ctx).
		SetQueryParam("symbol", "BTCUSDT").
		SetQueryParam("orderId", "42").
		Delete(server.URL + "/api/v3/order")
	require.NoError(t, err)

	got := <-seen
	assert.Equal(t, "my-key", got.header.Get(HeaderAPIKey))
	assert.Equal(t, "1499827319559", got.query.Get("timestamp"))
	assert.Equal(t, "5000", got.query.Get("recvWindow"))

	signature := got.query.Get("signature")
	got.query.Del("signature")
	assert.Equal(t, Signature(got.query.Encode(), "my-secret"), signature)
}

func TestMiddleware_APIKeyOnly(t *testing.T) {
	server, seen := newCaptureServer(t)
	client := newSignedClient(t)

	ctx := WithSecurity(context.Background(), core.SecurityAPIKey)
	_, err := client.R().SetContext(ctx).Get(server.URL)
	require.NoError(t, err)

	got := <-seen
	assert.Equal(t, "my-key", got.header.Get(HeaderAPIKey))
	assert.Empty(t, got.query.Get("signature"))
	assert.Empty(t, got.query.Get("timestamp"))
}

func TestMiddleware_Public(t *testing.T) {
	server, seen := newCaptureServer(t)
	client := newSignedClient(t)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)

	got := <-seen
	assert.Empty(t, got.header.Get(HeaderAPIKey))
	assert.Empty(t, got.query)
}

func TestSign_ReplacesStaleSignature(t *testing.T) {
	a, err := New(core.NewCredentials("k", "s"), WithClock(func() time.Time { return time.UnixMilli(1) }))
	require.NoError(t, err)

	req := resty.New().R()
	req.SetQueryParam("signature", "stale")

	require.NoError(t, a.Sign(req, core.SecuritySigned))

	assert.Len(t, req.QueryParams["signature"], 1)
	assert.NotEqual(t, "stale", req.QueryParams.Get("signature"))
}
