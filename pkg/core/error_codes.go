package core

import (
	"context"
	"errors"
	"net"
)

// Binance error codes with special handling.
const (
	CodeTooManyRequests  = -1003
	CodeUnauthorized     = -1002
	CodeTimestampOutside = -1021
	CodeInvalidSignature = -1022
	CodeTooManyOrders    = -1015
	CodeNewOrderRejected = -2010
	CodeCancelRejected   = -2011
	CodeNoSuchOrder      = -2013
	CodeBadAPIKeyFormat  = -2014
	CodeRejectedAPIKey   = -2015
)

// ClassifyAPIError maps a Binance error code, then the HTTP status, to an ErrorType.
func ClassifyAPIError(statusCode int, apiErr *APIError) ErrorType {
	if apiErr != nil {
		if t := mapBinanceErrorCode(apiErr.Code); t != ErrorTypeUnknown {
			return t
		}
	}
	return mapStatusCodeToErrorType(statusCode)
}

func mapBinanceErrorCode(code int) ErrorType {
	switch code {
	case CodeTooManyRequests, CodeTooManyOrders:
		return ErrorTypeRateLimit
	case CodeUnauthorized, CodeTimestampOutside, CodeInvalidSignature, CodeBadAPIKeyFormat, CodeRejectedAPIKey:
		return ErrorTypeAuthentication
	case CodeNoSuchOrder:
		return ErrorTypeNotFound
	case CodeNewOrderRejected:
		return ErrorTypeInsufficientFunds
	case CodeCancelRejected:
		return ErrorTypeInvalidOrder
	case -1100, -1101, -1102, -1103, -1104, -1105, -1106:
		return ErrorTypeBadRequest
	default:
		if code <= -1000 && code > -2000 {
			return ErrorTypeBadRequest
		}
		if code <= -2000 && code > -3000 {
			return ErrorTypeInvalidOrder
		}
		return ErrorTypeUnknown
	}
}

func mapStatusCodeToErrorType(statusCode int) ErrorType {
	switch {
	case statusCode >= 500:
		return ErrorTypeServerError
	case statusCode == 429 || statusCode == 418:
		return ErrorTypeRateLimit
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuthentication
	case statusCode == 400:
		return ErrorTypeBadRequest
	case statusCode == 404:
		return ErrorTypeNotFound
	default:
		return ErrorTypeUnknown
	}
}

func classifyTransportError(err error) ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}
	return ErrorTypeNetwork
}
