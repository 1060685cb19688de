package unit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/services"
	"github.com/lifelink/blood-donation/request-service/test/mocks"
)

func candidates(n int) []domain.DonorCandidate {
	out := make([]domain.DonorCandidate, n)
	for i := range out {
		out[i] = domain.DonorCandidate{
			ID:         "donor-" + string(rune('a'+i)),
			Name:       "Donor " + string(rune('A'+i)),
			Email:      string(rune('a'+i)) + "@example.com",
			BloodGroup: domain.ONegative,
			Available:  true,
		}
	}
	return out
}

func dispatchRequest() *domain.Request {
	return &domain.Request{
		ID:           "req-1",
		PatientName:  "Jane Doe",
		BloodGroup:   domain.ABPositive,
		Units:        3,
		HospitalName: "City Hospital",
		Location:     "12 Main St",
	}
}

func TestDispatcher_NotifiesEveryCandidate(t *testing.T) {
	publisher := mocks.NewMockNotificationPublisher()
	dispatcher := services.NewNotificationDispatcher(publisher, nil, 4, time.Second)

	dispatcher.NotifyAll(candidates(6), dispatchRequest())
	dispatcher.Wait()

	jobs := publisher.Published()
	if len(jobs) != 6 {
		t.Fatalf("expected 6 published jobs, got %d", len(jobs))
	}

	job := jobs[0]
	if job.RequestID != "req-1" {
		t.Errorf("job not correlated to request: %q", job.RequestID)
	}
	if !strings.Contains(job.Subject, "AB+") {
		t.Errorf("subject missing blood type: %q", job.Subject)
	}
	for _, want := range []string{"Jane Doe", "City Hospital", "12 Main St", "3", "req-1"} {
		if !strings.Contains(job.Message, want) {
			t.Errorf("message missing %q:\n%s", want, job.Message)
		}
	}
}

// TestDispatcher_FailureIsolation: one rejected send must not abort the
// sibling sends, and NotifyAll itself never surfaces the failure.
func TestDispatcher_FailureIsolation(t *testing.T) {
	publisher := mocks.NewMockNotificationPublisher()
	publisher.FailFor = map[string]error{
		"b@example.com": errors.New("channel rejected job"),
	}
	dispatcher := services.NewNotificationDispatcher(publisher, nil, 2, time.Second)

	dispatcher.NotifyAll(candidates(5), dispatchRequest())
	dispatcher.Wait()

	jobs := publisher.Published()
	if len(jobs) != 4 {
		t.Fatalf("expected 4 published jobs despite one failure, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.Email == "b@example.com" {
			t.Error("failed recipient unexpectedly recorded as published")
		}
	}
}

// TestDispatcher_DoesNotBlockCaller: submission must return immediately even
// when the channel is slow; the sends complete in the background.
func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	publisher := mocks.NewMockNotificationPublisher()
	publisher.Delay = 200 * time.Millisecond
	dispatcher := services.NewNotificationDispatcher(publisher, nil, 1, time.Second)

	start := time.Now()
	dispatcher.NotifyAll(candidates(3), dispatchRequest())
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("NotifyAll blocked for %v", elapsed)
	}

	dispatcher.Wait()
	if got := len(publisher.Published()); got != 3 {
		t.Errorf("expected 3 jobs after drain, got %d", got)
	}
}

func TestDispatcher_NoCandidates(t *testing.T) {
	publisher := mocks.NewMockNotificationPublisher()
	dispatcher := services.NewNotificationDispatcher(publisher, nil, 4, time.Second)

	dispatcher.NotifyAll(nil, dispatchRequest())
	dispatcher.Wait()

	if got := len(publisher.Published()); got != 0 {
		t.Errorf("expected no jobs, got %d", got)
	}
}
