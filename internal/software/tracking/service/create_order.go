package service

import (
	"context"

	"food-track/internal/domain/order"
	"food-track/internal/general/contracts"
	"food-track/internal/ports"
)

// CreateOrder seeds a PENDING order. Normally orders arrive from the
// order-placement collaborator; this surface exists so the tracking flow can
// be driven end to end without it.
func (service *trackingService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (ports.CreateOrderResult, error) {
	corrID := generateCorrelationID()

	ord, err := order.NewOrder(in.CustomerID, in.RestaurantID, in.Items, in.TotalAmount)
	if err != nil {
		return ports.CreateOrderResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		return service.orders.CreateOrder(ctx, ord)
	})
	if err != nil {
		service.logger.Error(ctx, "order_create_failed", "Failed to create order", err, map[string]any{
			"customer_id":   in.CustomerID,
			"restaurant_id": in.RestaurantID,
			"request_id":    corrID,
		})
		return ports.CreateOrderResult{}, err
	}

	ctx = service.logger.WithOrderID(ctx, ord.ID)
	service.runEffects(ctx, ord.ID, []effect{
		{
			name: "publish_order_event",
			run: func(ctx context.Context) error {
				msg := service.orderEventMessage(ord.ID, ord.Status.String(), "system", nil, corrID)
				return service.publishOrderEvent(ctx, contracts.RouteOrderStatusPrefix, msg)
			},
		},
	})

	service.logger.Info(ctx, "order_created", "Order created in PENDING state", map[string]any{
		"order_id":      ord.ID,
		"customer_id":   ord.CustomerID,
		"restaurant_id": ord.RestaurantID,
		"request_id":    corrID,
	})

	return ports.CreateOrderResult{
		OrderID:   ord.ID,
		Status:    ord.Status.String(),
		CreatedAt: ord.CreatedAt,
	}, nil
}
