package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
	"github.com/lifelink/blood-donation/request-service/internal/metrics"
)

// RequestOrchestrator composes the matching engine, the notification
// dispatcher and the lifecycle service behind the RequestService port.
type RequestOrchestrator struct {
	repo       ports.RequestRepository
	matcher    ports.Matcher
	dispatcher ports.Dispatcher
	lifecycle  *LifecycleService
	metrics    *metrics.Metrics
}

var _ ports.RequestService = (*RequestOrchestrator)(nil)

func NewRequestOrchestrator(
	repo ports.RequestRepository,
	matcher ports.Matcher,
	dispatcher ports.Dispatcher,
	lifecycle *LifecycleService,
	m *metrics.Metrics,
) *RequestOrchestrator {
	return &RequestOrchestrator{
		repo:       repo,
		matcher:    matcher,
		dispatcher: dispatcher,
		lifecycle:  lifecycle,
		metrics:    m,
	}
}

// CreateRequest validates and persists a new pending request, then matches
// donors and hands them to the dispatcher without waiting. It returns the
// created request and the number of donors being notified; that number is
// legitimately zero when no donor matched or the directory was unreachable.
func (s *RequestOrchestrator) CreateRequest(ctx context.Context, in domain.NewRequestInput, requesterID string) (*domain.Request, int, error) {
	if err := in.Validate(); err != nil {
		return nil, 0, err
	}

	bloodGroup, _ := domain.ParseBloodType(in.BloodGroup)
	req := &domain.Request{
		ID:            uuid.NewString(),
		RequesterID:   requesterID,
		PatientName:   in.PatientName,
		BloodGroup:    bloodGroup,
		Units:         in.Units,
		HospitalName:  in.HospitalName,
		Location:      in.Location,
		ContactNumber: in.ContactNumber,
		NeededDate:    in.NeededDate,
		IsEmergency:   in.IsEmergency,
		Status:        domain.StatusPending,
		Note:          in.Note,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	s.metrics.IncRequestCreated()

	result := s.matcher.Match(ctx, req)
	if result.Degraded {
		log.Printf("orchestrator: matching degraded for request %s, created without notifications", req.ID)
	}

	// Fire and forget: creation latency must not scale with donor count or
	// notification channel latency.
	s.dispatcher.NotifyAll(result.Candidates, req)

	return req, len(result.Candidates), nil
}

func (s *RequestOrchestrator) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RequestOrchestrator) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	return s.repo.List(ctx, filter)
}

func (s *RequestOrchestrator) Transition(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error) {
	return s.lifecycle.Transition(ctx, id, target, callerID)
}

func (s *RequestOrchestrator) DeleteRequest(ctx context.Context, id, callerID string) error {
	return s.lifecycle.Delete(ctx, id, callerID)
}
