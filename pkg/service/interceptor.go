package service

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"binapi/pkg/core"
)

// Interceptor observes calls immediately before dispatch and immediately after
// a response is received. Hooks are side-effect only: a returned error or a
// panic is logged and never changes the outcome of the call.
type Interceptor interface {
	BeforeRequest(req *core.Request, verbose bool) error
	AfterResponse(resp *Response, verbose bool) error
}

// InterceptorFuncs adapts plain functions to Interceptor. Nil fields are skipped.
type InterceptorFuncs struct {
	Before func(req *core.Request, verbose bool) error
	After  func(resp *Response, verbose bool) error
}

func (f InterceptorFuncs) BeforeRequest(req *core.Request, verbose bool) error {
	if f.Before == nil {
		return nil
	}
	return f.Before(req, verbose)
}

func (f InterceptorFuncs) AfterResponse(resp *Response, verbose bool) error {
	if f.After == nil {
		return nil
	}
	return f.After(resp, verbose)
}

// Registry is an ordered interceptor list shared by every binding that points
// at it. Replace swaps the whole list; it is safe for concurrent use with dispatch.
type Registry struct {
	mu           sync.RWMutex
	interceptors []Interceptor
}

// NewRegistry returns a registry holding interceptors in the given order. Nil entries are dropped.
func NewRegistry(interceptors ...Interceptor) *Registry {
	r := &Registry{}
	r.Replace(interceptors...)
	return r
}

// Replace discards the current list and installs interceptors.
func (r *Registry) Replace(interceptors ...Interceptor) {
	list := make([]Interceptor, 0, len(interceptors))
	for _, i := range interceptors {
		if i != nil {
			list = append(list, i)
		}
	}

	r.mu.Lock()
	r.interceptors = list
	r.mu.Unlock()
}

// Interceptors returns a snapshot of the current list.
func (r *Registry) Interceptors() []Interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.interceptors)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.interceptors)
}

func notifyBefore(logger zerolog.Logger, interceptors []Interceptor, req *core.Request, verbose bool) {
	for i, interceptor := range interceptors {
		if err := safeHook(func() error { return interceptor.BeforeRequest(req, verbose) }); err != nil {
			logger.Warn().
				Err(err).
				Int("interceptor", i).
				Str("request_id", req.ID).
				Str("hook", "before").
				Msg("interceptor failed")
		}
	}
}

func notifyAfter(logger zerolog.Logger, interceptors []Interceptor, resp *Response, verbose bool) {
	for i, interceptor := range interceptors {
		if err := safeHook(func() error { return interceptor.AfterResponse(resp, verbose) }); err != nil {
			logger.Warn().
				Err(err).
				Int("interceptor", i).
				Str("request_id", resp.Request.ID).
				Str("hook", "after").
				Msg("interceptor failed")
		}
	}
}

func safeHook(hook func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interceptor panic: %v", r)
		}
	}()
	return hook()
}
