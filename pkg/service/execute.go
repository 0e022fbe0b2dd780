package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"resty.dev/v3"

	"binapi/internal/auth"
	"binapi/pkg/core"
)

type executeOptions struct {
	notifyBefore bool
	notifyAfter  bool
}

type ExecuteOption func(*executeOptions)

// WithNotifyBefore controls whether before-hooks run. The value is passed to them as verbose.
func WithNotifyBefore(notify bool) ExecuteOption {
	return func(o *executeOptions) {
		o.notifyBefore = notify
	}
}

// WithNotifyAfter controls whether after-hooks run. The value is passed to them as verbose.
func WithNotifyAfter(notify bool) ExecuteOption {
	return func(o *executeOptions) {
		o.notifyAfter = notify
	}
}

// ExecuteSync dispatches call and blocks until it completes.
//
// Before-hooks run in registration order, then the request is sent, then
// after-hooks run if a response was received. A 2xx body is decoded into T.
// Any other outcome is returned as a *core.ClientError: ErrorKindAPI when the
// server answered with a decodable error body, ErrorKindTransport otherwise.
// A call can be executed once; later attempts return core.ErrCallExecuted.
func ExecuteSync[T any](ctx context.Context, call *Call[T], opts ...ExecuteOption) (T, error) {
	var zero T

	if call == nil || call.binding == nil || call.request == nil {
		return zero, fmt.Errorf("call is not bound")
	}

	if !call.markExecuted() {
		return zero, core.ErrCallExecuted
	}

	if ctx == nil {
		ctx = context.Background()
	}

	o := executeOptions{notifyBefore: true, notifyAfter: true}
	for _, opt := range opts {
		opt(&o)
	}

	b := call.binding
	req := call.request
	logger := b.logger.With().Str("request_id", req.ID).Str("operation", req.Operation.String()).Logger()
	interceptors := b.registry.Interceptors()

	if o.notifyBefore {
		notifyBefore(logger, interceptors, req, o.notifyBefore)
	}

	raw, err := dispatch(ctx, b, req)
	if raw != nil && raw.RawResponse != nil && raw.RawResponse.Body != nil {
		defer raw.RawResponse.Body.Close()
	}
	if err != nil {
		status := 0
		if raw != nil && raw.RawResponse != nil {
			status = raw.StatusCode()
		}
		logger.Error().Err(err).Str("request", req.String()).Msg("call failed")
		return zero, core.NewTransportError(status, err)
	}

	resp := newResponse(req, raw)

	if o.notifyAfter {
		notifyAfter(logger, interceptors, resp, o.notifyAfter)
	}

	if !resp.IsSuccess() {
		apiErr, err := GetAPIError(resp)
		if err != nil {
			logger.Error().Err(err).Int("status", resp.StatusCode).Msg("call rejected with undecodable body")
			return zero, core.NewTransportError(resp.StatusCode, err)
		}
		logger.Debug().Int("status", resp.StatusCode).Int("code", apiErr.Code).Str("msg", apiErr.Msg).Msg("call rejected")
		return zero, core.NewAPIClientError(resp.StatusCode, apiErr)
	}

	var out T
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(resp.Body, &out); err != nil {
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("decode response body")
		return zero, core.NewTransportError(resp.StatusCode, fmt.Errorf("decode response body: %w", err))
	}

	return out, nil
}

func dispatch(ctx context.Context, b *Binding, req *core.Request) (*resty.Response, error) {
	r := b.client.R().
		SetContext(auth.WithSecurity(ctx, req.Security)).
		SetQueryParamsFromValues(req.Query.Values())

	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	if req.Body != nil {
		r.SetBody(req.Body)
	}

	return r.Execute(req.Method, b.baseURL+req.Path)
}

// GetAPIError decodes the body of a failed call into an APIError.
// It fails with core.ErrUndecodableErrorBody when the body is empty, is not
// JSON, or carries neither a code nor a message.
func GetAPIError(resp *Response) (*core.APIError, error) {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, fmt.Errorf("decode api error: empty body: %w", core.ErrUndecodableErrorBody)
	}

	var apiErr core.APIError
	if err := sonic.Unmarshal(resp.Body, &apiErr); err != nil {
		return nil, fmt.Errorf("decode api error: %w: %w", core.ErrUndecodableErrorBody, err)
	}

	if apiErr.Code == 0 && apiErr.Msg == "" {
		return nil, fmt.Errorf("decode api error: no code or msg: %w", core.ErrUndecodableErrorBody)
	}

	return &apiErr, nil
}
