package service

import (
	"errors"

	"food-track/internal/general/logger"
	"food-track/internal/general/rabbitmq"
	"food-track/internal/ports"
)

// ErrCourierMismatch is returned when the courier completing a delivery is
// not the courier assigned to the order.
var ErrCourierMismatch = errors.New("courier does not match assignment")

// trackingService coordinates the durable order store, the ephemeral
// location cache, room broadcasts and broker events. Every mutation commits
// to Postgres first; cache and broadcast work runs after the commit and
// never rolls the write back.
type trackingService struct {
	logger   *logger.Logger
	uow      ports.UnitOfWork
	orders   ports.OrderRepository
	couriers ports.CourierRepository
	cache    ports.LocationCache
	rooms    ports.RoomBroadcaster
	pub      ports.EventPublisher
	rabbitmq *rabbitmq.Client
}

// NewTrackingService constructs the service with required dependencies.
func NewTrackingService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	orders ports.OrderRepository,
	couriers ports.CourierRepository,
	cache ports.LocationCache,
	rooms ports.RoomBroadcaster,
	pub ports.EventPublisher,
	rmq *rabbitmq.Client,
) ports.TrackingService {
	return &trackingService{
		logger:   logger,
		uow:      uow,
		orders:   orders,
		couriers: couriers,
		cache:    cache,
		rooms:    rooms,
		pub:      pub,
		rabbitmq: rmq,
	}
}
