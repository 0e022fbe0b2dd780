// Package binance exposes the Binance spot REST API as a typed service.
//
// The package includes:
//   - Service: connectivity, server time, order lookup and order cancellation
//   - Descriptor: binds a Service through service.CreateService
//
// Example usage:
//
//	svc, err := binance.New(generator, service.WithCredentials(creds))
//	call, err := svc.CancelOrder(core.CancelOrderRequest{Symbol: "BTC/USDT", OrderID: 42})
//	resp, err := service.ExecuteSync(ctx, call)
package binance
