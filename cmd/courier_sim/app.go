package couriersim

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"food-track/internal/general/config"
	"food-track/internal/general/contracts"
	"food-track/internal/general/logger"
	"food-track/internal/general/rabbitmq"
)

// Run publishes synthetic courier GPS reports for one order at a fixed
// cadence. It stands in for the courier mobile app when exercising the
// tracking flow end to end.
func Run(ctx context.Context, orderID, courierID string, interval time.Duration, count int) error {
	logger := logger.New("courier-sim")
	ctx = logger.WithOrderID(ctx, orderID)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()
	pub := rabbitmq.NewMQPublisher(rmq)

	// wander from a fixed downtown starting point
	lat, lng := 40.712800, -74.006000
	routingKey := contracts.RouteCourierLocationPrefix + orderID

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		lat += (rand.Float64() - 0.5) * 0.001
		lng += (rand.Float64() - 0.5) * 0.001

		report := contracts.CourierLocationReport{
			OrderID:   orderID,
			Latitude:  lat,
			Longitude: lng,
			Timestamp: time.Now().UTC(),
			Envelope: contracts.Envelope{
				Producer: "courier-sim",
				SentAt:   time.Now().UTC(),
			},
		}

		body, err := json.Marshal(report)
		if err != nil {
			return err
		}
		if err := pub.Publish(contracts.ExchangeCourierTopic, routingKey, body); err != nil {
			logger.Error(ctx, "report_publish_failed", "Failed to publish location report", err,
				map[string]any{"routing_key": routingKey})
			continue
		}

		logger.Info(ctx, "report_published", "Published synthetic location report", map[string]any{
			"order_id":   orderID,
			"courier_id": courierID,
			"lat":        lat,
			"lng":        lng,
			"seq":        i + 1,
		})
	}

	return nil
}
