package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publish submits one notification job to the queue. A publish error is the
// channel's reject signal; the dispatcher logs it and moves on.
func (rmq *RabbitMQBroker) Publish(ctx context.Context, job ports.NotificationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Use circuit breaker to protect RabbitMQ publish operation
	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}

var _ ports.NotificationPublisher = (*RabbitMQBroker)(nil)
