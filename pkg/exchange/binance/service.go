package binance

import (
	"fmt"
	"strings"

	"binapi/pkg/core"
	"binapi/pkg/service"
)

// Service is the typed Binance spot REST surface. Each method builds a
// single-use call; nothing is sent until it is passed to service.ExecuteSync.
type Service struct {
	binding *service.Binding
}

// Descriptor binds a Service; pass it to service.CreateService.
func Descriptor(b *service.Binding) *Service {
	return &Service{binding: b}
}

// New is shorthand for service.CreateService(g, Descriptor, opts...).
func New(g *service.Generator, opts ...service.ServiceOption) (*Service, error) {
	return service.CreateService(g, Descriptor, opts...)
}

func (s *Service) Binding() *service.Binding {
	return s.binding
}

// Ping tests connectivity to the REST API.
func (s *Service) Ping() *service.Call[core.Empty] {
	return service.NewCall[core.Empty](s.binding, core.NewOperationRequest(core.OpPing))
}

// ServerTime fetches the current server time.
func (s *Service) ServerTime() *service.Call[core.ServerTime] {
	return service.NewCall[core.ServerTime](s.binding, core.NewOperationRequest(core.OpServerTime))
}

// GetOrder checks an order's status. Requires credentials.
func (s *Service) GetOrder(req core.OrderStatusRequest) (*service.Call[core.Order], error) {
	req.Symbol = formatSymbol(req.Symbol)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	r := core.NewOperationRequest(core.OpGetOrder).SetQueryParams(req.Params())
	return service.NewCall[core.Order](s.binding, r), nil
}

// CancelOrder cancels an active order. Requires credentials.
func (s *Service) CancelOrder(req core.CancelOrderRequest) (*service.Call[core.CancelOrderResponse], error) {
	req.Symbol = formatSymbol(req.Symbol)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	r := core.NewOperationRequest(core.OpCancelOrder).SetQueryParams(req.Params())
	return service.NewCall[core.CancelOrderResponse](s.binding, r), nil
}

// formatSymbol accepts both "BTC/USDT" and "btcusdt" forms.
func formatSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
