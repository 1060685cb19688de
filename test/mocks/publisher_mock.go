package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// MockNotificationPublisher implements ports.NotificationPublisher and
// records every published job. Failures can be injected per recipient so
// fan-out isolation can be asserted.
type MockNotificationPublisher struct {
	mu        sync.Mutex
	published []ports.NotificationJob

	// PublishError fails every publish; FailFor fails only the listed
	// recipient addresses.
	PublishError error
	FailFor      map[string]error

	// Delay simulates a slow notification channel.
	Delay time.Duration
}

var _ ports.NotificationPublisher = (*MockNotificationPublisher)(nil)

func NewMockNotificationPublisher() *MockNotificationPublisher {
	return &MockNotificationPublisher{}
}

func (m *MockNotificationPublisher) Publish(ctx context.Context, job ports.NotificationJob) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}
	if err, ok := m.FailFor[job.Email]; ok {
		return err
	}

	m.published = append(m.published, job)
	return nil
}

// Published returns a snapshot of successfully published jobs.
func (m *MockNotificationPublisher) Published() []ports.NotificationJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.NotificationJob, len(m.published))
	copy(out, m.published)
	return out
}
