package service

import (
	"sync/atomic"

	"binapi/pkg/core"
)

// Call is a single-use deferred request. It is created by a service method
// and consumed by ExecuteSync; a second execution is refused.
type Call[T any] struct {
	binding  *Binding
	request  *core.Request
	executed atomic.Bool
}

// NewCall returns a call for req over binding. T is the type the success body decodes into.
func NewCall[T any](binding *Binding, req *core.Request) *Call[T] {
	return &Call[T]{
		binding: binding,
		request: req,
	}
}

func (c *Call[T]) Request() *core.Request {
	return c.request
}

// Executed reports whether the call has been handed to ExecuteSync.
func (c *Call[T]) Executed() bool {
	return c.executed.Load()
}

func (c *Call[T]) markExecuted() bool {
	return c.executed.CompareAndSwap(false, true)
}
