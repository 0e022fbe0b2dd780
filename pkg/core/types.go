package core

import (
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order.
// Values are kept verbatim so sides added by the API still decode.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderType represents the type of order placed on the exchange.
type OrderType string

// Order type constants define how an order is executed.
const (
	// TypeLimit executes at a specified price or better.
	TypeLimit OrderType = "LIMIT"
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = "MARKET"
	// TypeStopLoss triggers a market order when price reaches stop price.
	TypeStopLoss OrderType = "STOP_LOSS"
	// TypeStopLossLimit triggers a limit order when price reaches stop price.
	TypeStopLossLimit OrderType = "STOP_LOSS_LIMIT"
	// TypeTakeProfit triggers a market order when price reaches target.
	TypeTakeProfit OrderType = "TAKE_PROFIT"
	// TypeTakeProfitLimit triggers a limit order when price reaches target.
	TypeTakeProfitLimit OrderType = "TAKE_PROFIT_LIMIT"
	// TypeLimitMaker is a limit order rejected if it would match immediately.
	TypeLimitMaker OrderType = "LIMIT_MAKER"
)

// OrderStatus represents the current state of an order.
type OrderStatus string

// Order status constants define the lifecycle state of an order.
const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusPendingCancel   OrderStatus = "PENDING_CANCEL"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
	StatusExpiredInMatch  OrderStatus = "EXPIRED_IN_MATCH"
)

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired, StatusExpiredInMatch:
		return true
	}
	return false
}

// TimeInForce defines how long an order remains active.
type TimeInForce string

const (
	// GTC (Good Till Canceled) keeps the order active until filled or canceled.
	GTC TimeInForce = "GTC"
	// IOC (Immediate Or Cancel) requires immediate execution; unfilled portion is canceled.
	IOC TimeInForce = "IOC"
	// FOK (Fill Or Kill) requires complete immediate execution or cancellation.
	FOK TimeInForce = "FOK"
)

// ServerTime is the response of the server time endpoint.
type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

// Time converts the millisecond timestamp.
func (t ServerTime) Time() time.Time {
	return time.UnixMilli(t.ServerTime)
}

// Empty is the response of endpoints that return "{}".
type Empty struct{}

// CancelOrderRequest identifies the order to cancel.
// Either OrderID or OrigClientOrderID must be set.
type CancelOrderRequest struct {
	Symbol            string `json:"symbol" validate:"required"`
	OrderID           int64  `json:"orderId,omitempty" validate:"required_without=OrigClientOrderID"`
	OrigClientOrderID string `json:"origClientOrderId,omitempty" validate:"required_without=OrderID"`
	// NewClientOrderID optionally names the cancellation itself.
	NewClientOrderID string `json:"newClientOrderId,omitempty"`
}

// Params renders the request as query parameters.
func (r *CancelOrderRequest) Params() Params {
	p := Params{"symbol": r.Symbol}
	if r.OrderID != 0 {
		p["orderId"] = r.OrderID
	}
	if r.OrigClientOrderID != "" {
		p["origClientOrderId"] = r.OrigClientOrderID
	}
	if r.NewClientOrderID != "" {
		p["newClientOrderId"] = r.NewClientOrderID
	}
	return p
}

// Validate checks that the request identifies an order.
func (r *CancelOrderRequest) Validate() error {
	return validate.Struct(r)
}

// OrderStatusRequest identifies the order to look up.
type OrderStatusRequest struct {
	Symbol            string `json:"symbol" validate:"required"`
	OrderID           int64  `json:"orderId,omitempty" validate:"required_without=OrigClientOrderID"`
	OrigClientOrderID string `json:"origClientOrderId,omitempty" validate:"required_without=OrderID"`
}

func (r *OrderStatusRequest) Params() Params {
	p := Params{"symbol": r.Symbol}
	if r.OrderID != 0 {
		p["orderId"] = r.OrderID
	}
	if r.OrigClientOrderID != "" {
		p["origClientOrderId"] = r.OrigClientOrderID
	}
	return p
}

func (r *OrderStatusRequest) Validate() error {
	return validate.Struct(r)
}

// CancelOrderResponse is returned when an order is canceled.
// Quantities and prices are decimal strings as sent by the API.
type CancelOrderResponse struct {
	Symbol              string      `json:"symbol"`
	OrigClientOrderID   string      `json:"origClientOrderId"`
	OrderID             int64       `json:"orderId"`
	ClientOrderID       string      `json:"clientOrderId"`
	Status              OrderStatus `json:"status"`
	ExecutedQty         string      `json:"executedQty"`
	Price               string      `json:"price"`
	StopPrice           string      `json:"stopPrice"`
	OrigQty             string      `json:"origQty"`
	CummulativeQuoteQty string      `json:"cummulativeQuoteQty"`
	Type                OrderType   `json:"type"`
	Side                OrderSide   `json:"side"`
}

func (r CancelOrderResponse) String() string {
	return fmt.Sprintf(
		"CancelOrderResponse{Symbol:%s, OrigClientOrderID:%s, OrderID:%d, ClientOrderID:%s, Status:%s, ExecutedQty:%s, Price:%s, StopPrice:%s, OrigQty:%s, CummulativeQuoteQty:%s, Type:%s, Side:%s}",
		r.Symbol, r.OrigClientOrderID, r.OrderID, r.ClientOrderID, r.Status, r.ExecutedQty,
		r.Price, r.StopPrice, r.OrigQty, r.CummulativeQuoteQty, r.Type, r.Side,
	)
}

func (r CancelOrderResponse) PriceDecimal() (*apd.Decimal, error) {
	return ParseDecimal(r.Price)
}

func (r CancelOrderResponse) OrigQtyDecimal() (*apd.Decimal, error) {
	return ParseDecimal(r.OrigQty)
}

func (r CancelOrderResponse) ExecutedQtyDecimal() (*apd.Decimal, error) {
	return ParseDecimal(r.ExecutedQty)
}

// Order is the state of an order as returned by the query endpoint.
type Order struct {
	Symbol              string      `json:"symbol"`
	OrderID             int64       `json:"orderId"`
	OrderListID         int64       `json:"orderListId"`
	ClientOrderID       string      `json:"clientOrderId"`
	Price               string      `json:"price"`
	OrigQty             string      `json:"origQty"`
	ExecutedQty         string      `json:"executedQty"`
	CummulativeQuoteQty string      `json:"cummulativeQuoteQty"`
	Status              OrderStatus `json:"status"`
	TimeInForce         TimeInForce `json:"timeInForce"`
	Type                OrderType   `json:"type"`
	Side                OrderSide   `json:"side"`
	StopPrice           string      `json:"stopPrice"`
	IcebergQty          string      `json:"icebergQty"`
	Time                int64       `json:"time"`
	UpdateTime          int64       `json:"updateTime"`
	IsWorking           bool        `json:"isWorking"`
}

// RemainingQty returns origQty - executedQty.
func (o Order) RemainingQty() (*apd.Decimal, error) {
	orig, err := ParseDecimal(o.OrigQty)
	if err != nil {
		return nil, err
	}
	executed, err := ParseDecimal(o.ExecutedQty)
	if err != nil {
		return nil, err
	}
	var remaining apd.Decimal
	if _, err := apd.BaseContext.WithPrecision(34).Sub(&remaining, orig, executed); err != nil {
		return nil, fmt.Errorf("remaining qty: %w", err)
	}
	return &remaining, nil
}

// ParseDecimal parses a decimal string field. An empty string is zero.
func ParseDecimal(s string) (*apd.Decimal, error) {
	if s == "" {
		return apd.New(0, 0), nil
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}
