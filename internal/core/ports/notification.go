package ports

import (
	"context"
)

// NotificationJob is one unit of outbound notification work. Delivery status
// is owned by the external notification service; the core only needs the
// synchronous accept/reject signal from Publish.
type NotificationJob struct {
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// NotificationPublisher submits a job to the notification channel.
type NotificationPublisher interface {
	Publish(ctx context.Context, job NotificationJob) error
}
