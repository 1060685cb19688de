package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
	"github.com/lifelink/blood-donation/request-service/internal/metrics"
)

// transitions is the lifecycle adjacency. Statuses absent from the map are
// terminal.
var transitions = map[domain.Status][]domain.Status{
	domain.StatusPending:  {domain.StatusAccepted, domain.StatusRejected, domain.StatusCancelled, domain.StatusCompleted},
	domain.StatusAccepted: {domain.StatusCompleted, domain.StatusCancelled},
}

func transitionAllowed(from, to domain.Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// LifecycleService owns the request state machine. Authorization is evaluated
// against the caller's identity and a live donor-profile lookup, and every
// transition commits through a compare-and-set on the persisted status so two
// racing callers can never both win from the same starting state.
type LifecycleService struct {
	repo             ports.RequestRepository
	directory        ports.DonorDirectory
	metrics          *metrics.Metrics
	directoryTimeout time.Duration
}

func NewLifecycleService(repo ports.RequestRepository, directory ports.DonorDirectory, m *metrics.Metrics, directoryTimeout time.Duration) *LifecycleService {
	return &LifecycleService{
		repo:             repo,
		directory:        directory,
		metrics:          m,
		directoryTimeout: directoryTimeout,
	}
}

// Transition moves a request to target on behalf of callerID. On success the
// updated request is returned; otherwise one of the domain sentinel errors
// describes why the transition was refused.
func (s *LifecycleService) Transition(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status.Terminal() {
		s.metrics.IncTransition(string(target), "denied")
		return nil, domain.ErrAlreadyFinalized
	}
	if target == domain.StatusAccepted && req.Status != domain.StatusPending {
		s.metrics.IncTransition(string(target), "denied")
		return nil, domain.ErrNotPending
	}
	if !transitionAllowed(req.Status, target) {
		s.metrics.IncTransition(string(target), "denied")
		return nil, domain.ErrInvalidTransition
	}

	var donorID string
	switch target {
	case domain.StatusAccepted:
		donor, err := s.authorizeAccept(ctx, req, callerID)
		if err != nil {
			s.metrics.IncTransition(string(target), "denied")
			return nil, err
		}
		donorID = donor.ID

	case domain.StatusCompleted:
		if err := s.authorizeComplete(ctx, req, callerID); err != nil {
			s.metrics.IncTransition(string(target), "denied")
			return nil, err
		}

	case domain.StatusCancelled, domain.StatusRejected:
		if req.RequesterID != callerID {
			s.metrics.IncTransition(string(target), "denied")
			return nil, domain.ErrNotRequester
		}

	default:
		s.metrics.IncTransition(string(target), "denied")
		return nil, domain.ErrInvalidTransition
	}

	applied, err := s.repo.UpdateStatus(ctx, id, req.Status, target, donorID)
	if err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}
	if !applied {
		// Lost the race: re-read and report against the status that won.
		s.metrics.IncTransition(string(target), "conflict")
		return nil, s.conflictError(ctx, id, target)
	}

	s.metrics.IncTransition(string(target), "applied")
	req.Status = target
	if donorID != "" {
		req.DonorID = donorID
	}
	return req, nil
}

// Delete removes a request. Only the original requester may delete,
// regardless of the request's current status.
func (s *LifecycleService) Delete(ctx context.Context, id, callerID string) error {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.RequesterID != callerID {
		return domain.ErrNotRequester
	}
	return s.repo.Delete(ctx, id)
}

// authorizeAccept re-derives the caller's donor eligibility from a live
// directory lookup rather than trusting a role claim in the token.
func (s *LifecycleService) authorizeAccept(ctx context.Context, req *domain.Request, callerID string) (*domain.DonorCandidate, error) {
	donor, err := s.lookupDonor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !domain.CanDonate(donor.BloodGroup, req.BloodGroup) {
		return nil, fmt.Errorf("%w: %s cannot donate to %s", domain.ErrIneligibleDonor, donor.BloodGroup, req.BloodGroup)
	}
	return donor, nil
}

func (s *LifecycleService) authorizeComplete(ctx context.Context, req *domain.Request, callerID string) error {
	if req.DonorID == "" {
		// No donor committed yet: only the requester may close it out.
		if req.RequesterID != callerID {
			return domain.ErrNotRequester
		}
		return nil
	}

	donor, err := s.lookupDonor(ctx, callerID)
	if errors.Is(err, domain.ErrNoDonorProfile) {
		return domain.ErrNotAssignedDonor
	}
	if err != nil {
		return err
	}
	if donor.ID != req.DonorID {
		return domain.ErrNotAssignedDonor
	}
	return nil
}

func (s *LifecycleService) lookupDonor(ctx context.Context, userID string) (*domain.DonorCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.directoryTimeout)
	defer cancel()

	donor, err := s.directory.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDonorProfile) {
			return nil, domain.ErrNoDonorProfile
		}
		// Unlike matching, authorization cannot fail open: without the profile
		// there is no basis to grant the transition.
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}
	return donor, nil
}

func (s *LifecycleService) conflictError(ctx context.Context, id string, target domain.Status) error {
	fresh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fresh.Status.Terminal() {
		return domain.ErrAlreadyFinalized
	}
	if target == domain.StatusAccepted {
		return domain.ErrNotPending
	}
	return domain.ErrInvalidTransition
}
