package service

import (
	"net/http"
	"time"

	"resty.dev/v3"

	"binapi/pkg/core"
)

// Response is the raw outcome of a dispatched call, handed to after-hooks
// and to GetAPIError.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	Request    *core.Request
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func newResponse(req *core.Request, resp *resty.Response) *Response {
	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Bytes(),
		Duration:   resp.Duration(),
		Request:    req,
	}
}
