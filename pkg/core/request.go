package core

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

type Params map[string]any

// Request is a fully bound REST invocation: method, path and parameters.
// ID is unique per request and lets interceptors correlate hooks.
type Request struct {
	ID        string            `json:"id"`
	Operation Operation         `json:"operation"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Query     Params            `json:"query,omitempty"`
	Body      any               `json:"body,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Security  Security          `json:"security"`
	Weight    int               `json:"weight"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		ID:      uuid.NewString(),
		Method:  method,
		Path:    path,
		Query:   make(Params),
		Headers: make(map[string]string),
		Weight:  1,
	}
}

// NewOperationRequest returns a request shaped by the operation's endpoint.
func NewOperationRequest(op Operation) *Request {
	ep := op.Endpoint()
	req := NewRequest(ep.Method, ep.Path)
	req.Operation = op
	req.Security = ep.Security
	req.Weight = ep.Weight
	return req
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

func (r *Request) SetSecurity(security Security) *Request {
	r.Security = security
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s %s", r.Method, r.Path, r.Query.Values().Encode())
}

// Values renders the params as URL query values.
func (p Params) Values() url.Values {
	result := make(url.Values, len(p))
	for k, v := range p {
		switch val := v.(type) {
		case string:
			result.Set(k, val)
		case int:
			result.Set(k, strconv.Itoa(val))
		case int64:
			result.Set(k, strconv.FormatInt(val, 10))
		case float64:
			result.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		case bool:
			result.Set(k, strconv.FormatBool(val))
		default:
			result.Set(k, fmt.Sprintf("%v", val))
		}
	}
	return result
}
