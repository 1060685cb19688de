package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
	"github.com/lifelink/blood-donation/request-service/internal/metrics"
)

// NotificationDispatcher fans a request out to matched donors. NotifyAll is
// fire-and-forget: the caller returns as soon as the fan-out goroutine has
// been started, and a failed send never affects sibling sends or the caller.
type NotificationDispatcher struct {
	publisher   ports.NotificationPublisher
	metrics     *metrics.Metrics
	maxInFlight int
	sendTimeout time.Duration

	wg sync.WaitGroup
}

var _ ports.Dispatcher = (*NotificationDispatcher)(nil)

func NewNotificationDispatcher(publisher ports.NotificationPublisher, m *metrics.Metrics, maxInFlight int, sendTimeout time.Duration) *NotificationDispatcher {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &NotificationDispatcher{
		publisher:   publisher,
		metrics:     m,
		maxInFlight: maxInFlight,
		sendTimeout: sendTimeout,
	}
}

func (d *NotificationDispatcher) NotifyAll(candidates []domain.DonorCandidate, req *domain.Request) {
	if len(candidates) == 0 {
		return
	}

	log.Printf("dispatcher: notifying %d donors for request %s", len(candidates), req.ID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatch(candidates, req)
	}()
}

// Wait blocks until all in-flight fan-outs have drained. Used on shutdown.
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(candidates []domain.DonorCandidate, req *domain.Request) {
	g := new(errgroup.Group)
	g.SetLimit(d.maxInFlight)

	for _, donor := range candidates {
		g.Go(func() error {
			// Each send gets an independent deadline so one hung recipient
			// cannot stall the others.
			ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
			defer cancel()

			job := buildJob(donor, req)
			if err := d.publisher.Publish(ctx, job); err != nil {
				log.Printf("dispatcher: failed to notify %s for request %s: %v", donor.Email, req.ID, err)
				d.metrics.IncNotification("failed")
				return nil
			}
			d.metrics.IncNotification("published")
			return nil
		})
	}

	g.Wait()
	log.Printf("dispatcher: fan-out for request %s complete", req.ID)
}

func buildJob(donor domain.DonorCandidate, req *domain.Request) ports.NotificationJob {
	subject := fmt.Sprintf("Urgent Blood Request: %s Needed!", req.BloodGroup)
	message := fmt.Sprintf(
		"Hello %s,\n\n"+
			"There is an urgent request for %s blood at %s, %s.\n\n"+
			"Patient: %s\n"+
			"Units Needed: %d\n"+
			"Request ID: %s\n\n"+
			"Please login to the app to accept this request if you are available.\n\n"+
			"Thank you,\nBlood Donor App Team",
		donor.Name, req.BloodGroup, req.HospitalName, req.Location,
		req.PatientName, req.Units, req.ID,
	)

	return ports.NotificationJob{
		Email:     donor.Email,
		Subject:   subject,
		Message:   message,
		RequestID: req.ID,
	}
}
