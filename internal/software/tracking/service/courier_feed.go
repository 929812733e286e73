package service

import (
	"context"
	"encoding/json"

	"food-track/internal/general/contracts"
	"food-track/internal/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartCourierFeed starts the background consumer that turns queued courier
// location reports into ReportLocation calls. Courier apps that are not on
// a live socket publish to courier_topic instead.
func (service *trackingService) StartCourierFeed(ctx context.Context) {
	if service.rabbitmq == nil {
		service.logger.Warn(ctx, "courier_feed_disabled", "RabbitMQ client missing; courier feed not started", nil, nil)
		return
	}

	go func() {
		err := service.rabbitmq.Consume(ctx, contracts.QueueCourierLocationReports, "tracking-service-courier-feed", 10,
			func(ctx context.Context, d amqp.Delivery) error {
				var report contracts.CourierLocationReport
				if err := json.Unmarshal(d.Body, &report); err != nil {
					service.logger.Error(ctx, "mq_message_parse_failed", "Failed to parse courier location report", err,
						map[string]any{"routing_key": d.RoutingKey})
					return err
				}
				if report.OrderID == "" {
					service.logger.Error(ctx, "mq_message_invalid", "Courier location report missing order_id", nil,
						map[string]any{"routing_key": d.RoutingKey})
					return nil // drop silently; nothing to retry
				}

				_, err := service.ReportLocation(ctx, ports.ReportLocationInput{
					OrderID:   report.OrderID,
					Latitude:  report.Latitude,
					Longitude: report.Longitude,
				})
				if err != nil {
					service.logger.Error(ctx, "courier_feed_report_failed", "Queued location report rejected", err,
						map[string]any{"order_id": report.OrderID})
					return err
				}
				return nil
			})
		if err != nil {
			service.logger.Error(ctx, "courier_feed_stopped", "Courier feed consumer exited", err, nil)
		}
	}()

	service.logger.Info(ctx, "mq_consumer_started", "Courier location feed started",
		map[string]any{"queue": contracts.QueueCourierLocationReports})
}
