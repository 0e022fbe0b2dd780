package core

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// ProductionURL is the Binance spot REST endpoint.
	ProductionURL = "https://api.binance.com"
	// TestnetURL is the Binance spot test network REST endpoint.
	TestnetURL = "https://testnet.binance.vision"
)

// Config contains all configuration options for a service generator.
// It covers endpoint selection, credentials, transport limits and logging.
type Config struct {
	// Testnet selects the test network base URL instead of production.
	Testnet     bool         `json:"testnet" yaml:"testnet"`
	Credentials *Credentials `json:"credentials,omitempty" yaml:"credentials,omitempty"`

	APIBaseURL     string `json:"api_base_url" yaml:"api_base_url" validate:"required,url"`
	TestnetBaseURL string `json:"testnet_base_url" yaml:"testnet_base_url" validate:"required,url"`

	// Timeout is the maximum duration for a single HTTP call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`

	// MaxRequests bounds the number of in-flight requests across all hosts.
	MaxRequests int `json:"max_requests" yaml:"max_requests" validate:"min=1"`
	// MaxRequestsPerHost bounds the number of connections to a single host.
	MaxRequestsPerHost int           `json:"max_requests_per_host" yaml:"max_requests_per_host" validate:"min=1"`
	PingInterval       time.Duration `json:"ping_interval" yaml:"ping_interval" validate:"min=0"`

	RecvWindow time.Duration `json:"recv_window" yaml:"recv_window" validate:"min=0"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with the Binance defaults.
// Default values: production endpoint, 10s timeout, 500 concurrent requests
// in total and per host, 20s keep-alive ping interval, 5s receive window.
func DefaultConfig() *Config {
	return &Config{
		Testnet:        false,
		APIBaseURL:     ProductionURL,
		TestnetBaseURL: TestnetURL,

		Timeout: 10 * time.Second,

		MaxRequests:        500,
		MaxRequestsPerHost: 500,
		PingInterval:       20 * time.Second,

		RecvWindow: 5 * time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MaxRequestsPerHost > c.MaxRequests {
		return errors.New("MaxRequestsPerHost must not exceed MaxRequests")
	}
	return nil
}

// BaseURL returns the endpoint selected by the Testnet flag.
func (c *Config) BaseURL() string {
	if c.Testnet {
		return c.TestnetBaseURL
	}
	return c.APIBaseURL
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithTestnet enables or disables the test network and returns the config for chaining.
func (c *Config) WithTestnet(testnet bool) *Config {
	c.Testnet = testnet
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithLimits sets the concurrent request bounds and returns the config for chaining.
func (c *Config) WithLimits(maxRequests, maxRequestsPerHost int) *Config {
	c.MaxRequests = maxRequests
	c.MaxRequestsPerHost = maxRequestsPerHost
	return c
}

// WithBaseURLs overrides both endpoints and returns the config for chaining.
func (c *Config) WithBaseURLs(api, testnet string) *Config {
	c.APIBaseURL = api
	c.TestnetBaseURL = testnet
	return c
}
