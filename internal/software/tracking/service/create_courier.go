package service

import (
	"context"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/ports"
)

// CreateCourier seeds an available courier. Normally the fleet comes from the
// fleet-management collaborator; this surface exists so assignment and
// location flows can be driven end to end without it.
func (service *trackingService) CreateCourier(ctx context.Context, in ports.CreateCourierInput) (ports.CreateCourierResult, error) {
	c, err := courier.NewCourier(in.Name)
	if err != nil {
		return ports.CreateCourierResult{}, err
	}
	if in.Latitude != nil && in.Longitude != nil {
		if err := c.UpdateLocation(*in.Latitude, *in.Longitude, time.Now().UTC()); err != nil {
			return ports.CreateCourierResult{}, err
		}
	}

	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		return service.couriers.CreateCourier(ctx, c)
	})
	if err != nil {
		service.logger.Error(ctx, "courier_create_failed", "Failed to create courier", err, map[string]any{
			"name": in.Name,
		})
		return ports.CreateCourierResult{}, err
	}

	service.logger.Info(ctx, "courier_created", "Courier created", map[string]any{
		"courier_id": c.ID,
		"name":       c.Name,
	})

	return ports.CreateCourierResult{
		CourierID:   c.ID,
		Name:        c.Name,
		IsAvailable: c.IsAvailable,
		CreatedAt:   c.CreatedAt,
	}, nil
}
