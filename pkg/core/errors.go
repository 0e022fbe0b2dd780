package core

import (
	"errors"
	"fmt"
)

// ErrorKind tells whether a failed call was rejected by the server or never completed.
type ErrorKind int

const (
	// ErrorKindAPI indicates the server answered with a non-success status and a decodable error body.
	ErrorKindAPI ErrorKind = iota
	// ErrorKindTransport indicates the call could not complete or its error body could not be decoded.
	ErrorKindTransport
)

func (k ErrorKind) String() string {
	return [...]string{"API", "TRANSPORT"}[k]
}

// ErrorType represents the category of a server-side rejection.
type ErrorType int

// Error type constants categorize errors for proper handling by callers.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInsufficientFunds indicates account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrCallExecuted is returned when a call handle is executed a second time.
	ErrCallExecuted = errors.New("call already executed")
	// ErrUndecodableErrorBody is returned when a failure body does not carry an API error.
	ErrUndecodableErrorBody = errors.New("undecodable error body")
	// ErrNoCredentials is returned when a signed endpoint is called without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrClientClosed is returned when attempting to use a closed transport.
	ErrClientClosed = errors.New("client is closed")
)

// APIError is the error payload returned by Binance, e.g.
// {"code":-2011,"msg":"Unknown order sent."}. Unknown fields are ignored.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e APIError) String() string {
	return fmt.Sprintf("APIError{Code:%d, Msg:%s}", e.Code, e.Msg)
}

// ClientError is the single error type returned by call execution.
// Kind tells a server rejection apart from a transport failure.
type ClientError struct {
	Kind ErrorKind
	// Type classifies the failure. Transport failures without a response
	// are ErrorTypeNetwork or ErrorTypeTimeout.
	Type ErrorType
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// API is set only for ErrorKindAPI.
	API *APIError
	// Err is the underlying cause for ErrorKindTransport.
	Err error
}

// Error implements the error interface for ClientError.
func (e *ClientError) Error() string {
	if e.Kind == ErrorKindAPI && e.API != nil {
		return fmt.Sprintf("binance %s (%d/%d): %s", e.Type, e.StatusCode, e.API.Code, e.API.Msg)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("binance %s (%d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("binance %s: %v", e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewAPIClientError wraps a decoded server rejection.
func NewAPIClientError(statusCode int, apiErr *APIError) *ClientError {
	return &ClientError{
		Kind:       ErrorKindAPI,
		Type:       ClassifyAPIError(statusCode, apiErr),
		StatusCode: statusCode,
		API:        apiErr,
	}
}

// NewTransportError wraps a failure to complete a call.
// statusCode is zero when no response was obtained.
func NewTransportError(statusCode int, err error) *ClientError {
	errType := classifyTransportError(err)
	if statusCode != 0 {
		errType = mapStatusCodeToErrorType(statusCode)
	}
	return &ClientError{
		Kind:       ErrorKindTransport,
		Type:       errType,
		StatusCode: statusCode,
		Err:        err,
	}
}

// AsClientError extracts a *ClientError from err's chain.
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsAPIError returns true if the server rejected the call.
func IsAPIError(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.Kind == ErrorKindAPI
}

// IsTransportError returns true if the call could not be completed.
func IsTransportError(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.Kind == ErrorKindTransport
}

// IsRateLimitError returns true if the error is a rate limit violation.
// Rate limit errors should be retried after a delay.
func IsRateLimitError(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.Type == ErrorTypeRateLimit
}

// IsAuthenticationError returns true if the error is an authentication failure.
func IsAuthenticationError(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.Type == ErrorTypeAuthentication
}

// IsTerminalError returns true if retrying the same call cannot succeed.
func IsTerminalError(err error) bool {
	ce, ok := AsClientError(err)
	if !ok {
		return false
	}
	return ce.Type == ErrorTypeInsufficientFunds ||
		ce.Type == ErrorTypeInvalidOrder ||
		ce.Type == ErrorTypeNotFound
}
