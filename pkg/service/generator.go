// Package service binds typed Binance services to a transport and executes
// their calls synchronously with interceptor notification and uniform error mapping.
package service

import (
	"fmt"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"binapi/internal/auth"
	"binapi/internal/transport"
	"binapi/pkg/core"
)

// Generator creates service bindings. Every binding it creates shares the
// generator's transport and, unless given its own, the generator's Registry.
// Generators are safe for concurrent use.
type Generator struct {
	config   *core.Config
	shared   *transport.Shared
	registry *Registry
	logger   zerolog.Logger
}

type GeneratorOption func(*Generator)

// WithLogger sets the logger used for interceptor faults and failed calls.
func WithLogger(logger zerolog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithRegistry makes the generator use registry as its shared interceptor list.
func WithRegistry(registry *Registry) GeneratorOption {
	return func(g *Generator) {
		if registry != nil {
			g.registry = registry
		}
	}
}

// NewGenerator returns a generator over the shared transport.
// The configuration is validated before the generator is created.
func NewGenerator(config *core.Config, shared *transport.Shared, opts ...GeneratorOption) (*Generator, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	if shared == nil {
		return nil, fmt.Errorf("shared transport is required")
	}

	g := &Generator{
		config:   config,
		shared:   shared,
		registry: NewRegistry(),
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Generator) Config() *core.Config {
	return g.config
}

// Shared returns the transport every binding is built on.
func (g *Generator) Shared() *transport.Shared {
	return g.shared
}

// Registry returns the interceptor list shared by this generator's bindings.
func (g *Generator) Registry() *Registry {
	return g.registry
}

func (g *Generator) Logger() zerolog.Logger {
	return g.logger
}

// Descriptor builds a typed service over a binding.
type Descriptor[S any] func(b *Binding) S

type serviceOptions struct {
	credentials     *core.Credentials
	interceptors    []Interceptor
	replace         bool
	ownInterceptors []Interceptor
	own             bool
}

type ServiceOption func(*serviceOptions)

// WithCredentials authenticates the binding. Credentials missing either the
// key or the secret are ignored and the binding stays on the shared client.
func WithCredentials(creds *core.Credentials) ServiceOption {
	return func(o *serviceOptions) {
		o.credentials = creds
	}
}

// WithInterceptors replaces the generator's shared interceptor list.
// Bindings created earlier from the same generator observe the new list.
func WithInterceptors(interceptors ...Interceptor) ServiceOption {
	return func(o *serviceOptions) {
		o.interceptors = interceptors
		o.replace = true
	}
}

// WithOwnInterceptors gives the binding a private interceptor list that no
// other CreateService call can change.
func WithOwnInterceptors(interceptors ...Interceptor) ServiceOption {
	return func(o *serviceOptions) {
		o.ownInterceptors = interceptors
		o.own = true
	}
}

// CreateService binds a new service described by descriptor.
// No network I/O is performed.
func CreateService[S any](g *Generator, descriptor Descriptor[S], opts ...ServiceOption) (S, error) {
	var zero S
	if g == nil {
		return zero, fmt.Errorf("generator is required")
	}
	if descriptor == nil {
		return zero, fmt.Errorf("descriptor is required")
	}

	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &Binding{
		client:   g.shared.Client(),
		baseURL:  g.config.BaseURL(),
		registry: g.registry,
		logger:   g.logger,
	}

	if o.credentials.Present() {
		authenticator, err := auth.New(o.credentials, auth.WithRecvWindow(g.config.RecvWindow))
		if err != nil {
			return zero, fmt.Errorf("create authenticator: %w", err)
		}
		b.client = g.shared.Derive(authenticator.Middleware())
		b.authenticated = true
	}

	if o.replace {
		g.registry.Replace(o.interceptors...)
	}

	if o.own {
		b.registry = NewRegistry(o.ownInterceptors...)
	}

	g.logger.Debug().
		Str("base_url", b.baseURL).
		Bool("authenticated", b.authenticated).
		Int("interceptors", b.registry.Len()).
		Msg("service created")

	return descriptor(b), nil
}

// Binding is what a service is built over: a client, a base URL and the
// interceptor list its calls notify.
type Binding struct {
	client        *resty.Client
	baseURL       string
	registry      *Registry
	logger        zerolog.Logger
	authenticated bool
}

func (b *Binding) Client() *resty.Client {
	return b.client
}

func (b *Binding) BaseURL() string {
	return b.baseURL
}

func (b *Binding) Registry() *Registry {
	return b.registry
}

// Authenticated reports whether the binding's client signs requests.
func (b *Binding) Authenticated() bool {
	return b.authenticated
}
