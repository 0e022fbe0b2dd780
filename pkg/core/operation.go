package core

import "net/http"

// Operation represents one REST call exposed by the service proxy.
type Operation int

// Operation constants define all supported REST calls.
const (
	// OpPing tests connectivity to the REST API.
	OpPing Operation = iota
	// OpServerTime retrieves the current server time.
	OpServerTime
	// OpGetOrder retrieves details of a specific order.
	OpGetOrder
	// OpCancelOrder cancels an existing order.
	OpCancelOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"PING",
		"SERVER_TIME",
		"GET_ORDER",
		"CANCEL_ORDER",
	}[o]
}

// Security is the authentication level an endpoint requires.
type Security int

const (
	// SecurityNone marks public endpoints.
	SecurityNone Security = iota
	// SecurityAPIKey marks endpoints that need the X-MBX-APIKEY header.
	SecurityAPIKey
	// SecuritySigned marks endpoints that additionally need a timestamp and signature.
	SecuritySigned
)

func (s Security) String() string {
	return [...]string{"NONE", "API_KEY", "SIGNED"}[s]
}

// Endpoint describes the HTTP shape of an operation.
type Endpoint struct {
	Method   string
	Path     string
	Security Security
	Weight   int
}

var endpoints = [...]Endpoint{
	OpPing:        {Method: http.MethodGet, Path: "/api/v3/ping", Security: SecurityNone, Weight: 1},
	OpServerTime:  {Method: http.MethodGet, Path: "/api/v3/time", Security: SecurityNone, Weight: 1},
	OpGetOrder:    {Method: http.MethodGet, Path: "/api/v3/order", Security: SecuritySigned, Weight: 4},
	OpCancelOrder: {Method: http.MethodDelete, Path: "/api/v3/order", Security: SecuritySigned, Weight: 1},
}

// Endpoint returns the HTTP description of the operation.
func (o Operation) Endpoint() Endpoint {
	return endpoints[o]
}
