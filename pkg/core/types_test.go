package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cancelOrderJSON = `{
	"symbol": "LTCBTC",
	"origClientOrderId": "myOrder1",
	"orderId": 4,
	"clientOrderId": "cancelMyOrder1",
	"status": "CANCELED",
	"executedQty": "0.00000000",
	"price": "2.00000000",
	"stopPrice": "0.00000000",
	"origQty": "1.00000000",
	"cummulativeQuoteQty": "0.00000000",
	"type": "LIMIT",
	"side": "BUY"
}`

const cancelOrderWithExtraJSON = `{
	"symbol": "LTCBTC",
	"origClientOrderId": "myOrder1",
	"orderId": 4,
	"orderListId": -1,
	"clientOrderId": "cancelMyOrder1",
	"status": "CANCELED",
	"executedQty": "0.00000000",
	"price": "2.00000000",
	"stopPrice": "0.00000000",
	"origQty": "1.00000000",
	"cummulativeQuoteQty": "0.00000000",
	"type": "LIMIT",
	"side": "BUY"
}`

func TestCancelOrderResponse_Decode(t *testing.T) {
	var resp CancelOrderResponse
	require.NoError(t, sonic.Unmarshal([]byte(cancelOrderJSON), &resp))

	assert.Equal(t, "LTCBTC", resp.Symbol)
	assert.Equal(t, "myOrder1", resp.OrigClientOrderID)
	assert.Equal(t, int64(4), resp.OrderID)
	assert.Equal(t, "cancelMyOrder1", resp.ClientOrderID)
	assert.Equal(t, StatusCanceled, resp.Status)
	assert.Equal(t, "2.00000000", resp.Price)
	assert.Equal(t, "1.00000000", resp.OrigQty)
	assert.Equal(t, TypeLimit, resp.Type)
	assert.Equal(t, SideBuy, resp.Side)
}

func TestCancelOrderResponse_UnknownFieldTolerated(t *testing.T) {
	var plain, extra CancelOrderResponse
	require.NoError(t, sonic.Unmarshal([]byte(cancelOrderJSON), &plain))
	require.NoError(t, sonic.Unmarshal([]byte(cancelOrderWithExtraJSON), &extra))

	assert.Equal(t, plain, extra)
}

func TestCancelOrderResponse_UnknownEnumValue(t *testing.T) {
	var resp CancelOrderResponse
	require.NoError(t, sonic.Unmarshal([]byte(`{"status":"SOMETHING_NEW","type":"OTO","side":"BUY"}`), &resp))

	assert.Equal(t, OrderStatus("SOMETHING_NEW"), resp.Status)
	assert.Equal(t, OrderType("OTO"), resp.Type)
}

func TestCancelOrderResponse_RoundTrip(t *testing.T) {
	original := CancelOrderResponse{
		Symbol:              "BTCUSDT",
		OrigClientOrderID:   "orig-1",
		OrderID:             28457,
		ClientOrderID:       "cancel-1",
		Status:              StatusCanceled,
		ExecutedQty:         "0.50000000",
		Price:               "64000.10000000",
		StopPrice:           "63000.00000000",
		OrigQty:             "1.00000000",
		CummulativeQuoteQty: "32000.05000000",
		Type:                TypeStopLossLimit,
		Side:                SideSell,
	}

	data, err := sonic.Marshal(original)
	require.NoError(t, err)

	var decoded CancelOrderResponse
	require.NoError(t, sonic.Unmarshal(data, &decoded))

	assert.Equal(t, original, decoded)
}

func TestCancelOrderResponse_Decimals(t *testing.T) {
	resp := CancelOrderResponse{Price: "2.50000000", OrigQty: "1.00000000", ExecutedQty: ""}

	price, err := resp.PriceDecimal()
	require.NoError(t, err)
	assert.Equal(t, "2.50000000", price.String())

	qty, err := resp.OrigQtyDecimal()
	require.NoError(t, err)
	assert.Equal(t, "1.00000000", qty.String())

	executed, err := resp.ExecutedQtyDecimal()
	require.NoError(t, err)
	assert.True(t, executed.IsZero())

	_, err = CancelOrderResponse{Price: "abc"}.PriceDecimal()
	assert.Error(t, err)
}

func TestCancelOrderResponse_String(t *testing.T) {
	resp := CancelOrderResponse{Symbol: "LTCBTC", OrderID: 4, Status: StatusCanceled}

	s := resp.String()
	assert.Contains(t, s, "Symbol:LTCBTC")
	assert.Contains(t, s, "OrderID:4")
	assert.Contains(t, s, "Status:CANCELED")
}

func TestOrder_RemainingQty(t *testing.T) {
	order := Order{OrigQty: "1.50000000", ExecutedQty: "0.25000000"}

	remaining, err := order.RemainingQty()
	require.NoError(t, err)
	assert.Equal(t, "1.25000000", remaining.String())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		expected bool
	}{
		{StatusNew, false},
		{StatusPartiallyFilled, false},
		{StatusPendingCancel, false},
		{StatusFilled, true},
		{StatusCanceled, true},
		{StatusRejected, true},
		{StatusExpired, true},
		{StatusExpiredInMatch, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsTerminal())
		})
	}
}

func TestServerTime_Time(t *testing.T) {
	st := ServerTime{ServerTime: 1499827319559}

	assert.Equal(t, int64(1499827319559), st.Time().UnixMilli())
}

func TestCancelOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CancelOrderRequest
		wantErr bool
	}{
		{"by_order_id", CancelOrderRequest{Symbol: "BTCUSDT", OrderID: 1}, false},
		{"by_client_id", CancelOrderRequest{Symbol: "BTCUSDT", OrigClientOrderID: "abc"}, false},
		{"missing_symbol", CancelOrderRequest{OrderID: 1}, true},
		{"missing_identifier", CancelOrderRequest{Symbol: "BTCUSDT"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCancelOrderRequest_Params(t *testing.T) {
	req := CancelOrderRequest{Symbol: "BTCUSDT", OrderID: 42, NewClientOrderID: "c-1"}

	params := req.Params()

	assert.Equal(t, "BTCUSDT", params["symbol"])
	assert.Equal(t, int64(42), params["orderId"])
	assert.Equal(t, "c-1", params["newClientOrderId"])
	assert.NotContains(t, params, "origClientOrderId")
}

func TestOrderStatusRequest(t *testing.T) {
	req := OrderStatusRequest{Symbol: "BTCUSDT", OrigClientOrderID: "abc"}

	require.NoError(t, req.Validate())
	params := req.Params()
	assert.Equal(t, "abc", params["origClientOrderId"])
	assert.NotContains(t, params, "orderId")

	assert.Error(t, (&OrderStatusRequest{Symbol: "BTCUSDT"}).Validate())
}
