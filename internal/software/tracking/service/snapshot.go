package service

import (
	"context"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/order"
	"food-track/internal/ports"
)

// GetTrackingSnapshot returns the synchronous view a client renders before
// realtime events start flowing. The delivery location prefers the ephemeral
// cache; on a miss or a cache error it falls back to the durable record.
func (service *trackingService) GetTrackingSnapshot(ctx context.Context, orderID string) (ports.TrackingSnapshot, error) {
	ctx = service.logger.WithOrderID(ctx, orderID)

	var (
		ord *order.Order
		crr *courier.Courier
	)
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ord, err = service.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if ord.HasCourier() {
			crr, err = service.couriers.GetByID(ctx, *ord.CourierID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ports.TrackingSnapshot{}, err
	}

	snap := ports.TrackingSnapshot{
		OrderID:               ord.ID,
		Status:                ord.Status.String(),
		Items:                 ord.Items,
		TotalAmount:           ord.TotalAmount,
		EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
		CreatedAt:             ord.CreatedAt,
		UpdatedAt:             ord.UpdatedAt,
	}
	for _, entry := range ord.StatusHistory {
		snap.StatusHistory = append(snap.StatusHistory, ports.HistoryView{
			Status:     entry.Status.String(),
			ActorLabel: entry.ActorLabel,
			RecordedAt: entry.RecordedAt,
		})
	}
	if crr != nil {
		cs := courierSummary(crr)
		snap.Courier = &cs
	}

	snap.DeliveryLocation = service.resolveDeliveryLocation(ctx, ord)

	return snap, nil
}

// resolveDeliveryLocation prefers the cached sample over the durable stamp.
// Cache trouble degrades to the durable value with a warning, never an error.
func (service *trackingService) resolveDeliveryLocation(ctx context.Context, ord *order.Order) *ports.GeoSnap {
	sample, err := service.cache.Get(ctx, ord.ID)
	if err != nil {
		service.logger.Warn(ctx, "location_cache_degraded",
			"Location cache read failed; serving durable location", err,
			map[string]any{"order_id": ord.ID})
	}
	if sample != nil {
		return &ports.GeoSnap{
			Latitude:  sample.Latitude,
			Longitude: sample.Longitude,
			UpdatedAt: sample.SampledAt,
		}
	}

	if ord.DeliveryLocation != nil {
		return &ports.GeoSnap{
			Latitude:  ord.DeliveryLocation.Latitude,
			Longitude: ord.DeliveryLocation.Longitude,
			UpdatedAt: ord.DeliveryLocation.UpdatedAt,
		}
	}
	return nil
}
